package service

import (
	"context"

	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/internal/entity"
	"ai-autoparts-be/internal/repository/contract"
	"ai-autoparts-be/internal/repository/specification"
)

const defaultHistoryLimit = 50

type IHistoryService interface {
	List(ctx context.Context, kind string, limit, offset int) (*dto.LookupHistoryResponse, error)
}

type historyService struct {
	lookupRepo contract.LookupRepository
}

func NewHistoryService(lookupRepo contract.LookupRepository) IHistoryService {
	return &historyService{lookupRepo: lookupRepo}
}

func (s *historyService) List(ctx context.Context, kind string, limit, offset int) (*dto.LookupHistoryResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	specs := []specification.Specification{}
	if kind != "" {
		specs = append(specs, specification.ByKind{Kind: kind})
	}

	total, err := s.lookupRepo.Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	lookups, err := s.lookupRepo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.LookupHistoryItem, len(lookups))
	for i, l := range lookups {
		items[i] = toHistoryItem(l)
	}

	return &dto.LookupHistoryResponse{
		Total: int(total),
		Items: items,
	}, nil
}

func toHistoryItem(l *entity.Lookup) dto.LookupHistoryItem {
	return dto.LookupHistoryItem{
		Id:         l.Id,
		Kind:       l.Kind,
		Query:      l.Query,
		VehicleId:  l.VehicleId,
		Status:     l.Status,
		RetryCount: l.RetryCount,
		Result:     l.Result,
		CreatedAt:  l.CreatedAt,
	}
}
