package service

import (
	"context"
	"testing"
	"time"

	"ai-autoparts-be/internal/entity"
	"ai-autoparts-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookupRepo struct {
	lookups   []*entity.Lookup
	lastSpecs []specification.Specification
}

func (r *stubLookupRepo) Create(context.Context, *entity.Lookup) error { return nil }

func (r *stubLookupRepo) FindOne(context.Context, ...specification.Specification) (*entity.Lookup, error) {
	return nil, nil
}

func (r *stubLookupRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Lookup, error) {
	r.lastSpecs = specs
	return r.lookups, nil
}

func (r *stubLookupRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(r.lookups)), nil
}

func TestHistoryList(t *testing.T) {
	repo := &stubLookupRepo{
		lookups: []*entity.Lookup{
			{
				Id:        uuid.New(),
				Kind:      entity.LookupKindParts,
				Query:     "oil filter",
				VehicleId: 21131,
				Status:    "SUCCESS",
				CreatedAt: time.Now(),
			},
			{
				Id:        uuid.New(),
				Kind:      entity.LookupKindVin,
				Query:     "WBAAV33421FU91768",
				Status:    "NO_MATCH",
				CreatedAt: time.Now(),
			},
		},
	}
	svc := NewHistoryService(repo)

	res, err := svc.List(context.Background(), "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "oil filter", res.Items[0].Query)
	assert.Equal(t, "NO_MATCH", res.Items[1].Status)
}

func TestHistoryListAppliesKindFilter(t *testing.T) {
	repo := &stubLookupRepo{}
	svc := NewHistoryService(repo)

	_, err := svc.List(context.Background(), entity.LookupKindVin, 10, 0)
	require.NoError(t, err)

	var foundKind bool
	for _, spec := range repo.lastSpecs {
		if byKind, ok := spec.(specification.ByKind); ok {
			foundKind = true
			assert.Equal(t, entity.LookupKindVin, byKind.Kind)
		}
	}
	assert.True(t, foundKind, "expected a ByKind specification")
}

func TestHistoryListClampsLimit(t *testing.T) {
	repo := &stubLookupRepo{}
	svc := NewHistoryService(repo)

	for _, limit := range []int{-1, 0, 500} {
		_, err := svc.List(context.Background(), "", limit, 0)
		require.NoError(t, err)

		var pagination *specification.Pagination
		for _, spec := range repo.lastSpecs {
			if p, ok := spec.(specification.Pagination); ok {
				pagination = &p
			}
		}
		require.NotNil(t, pagination)
		assert.Equal(t, defaultHistoryLimit, pagination.Limit)
	}
}
