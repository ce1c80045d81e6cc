package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/internal/entity"
	"ai-autoparts-be/internal/repository/specification"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLookupRepo struct {
	created chan *entity.Lookup
}

func newRecordingLookupRepo() *recordingLookupRepo {
	return &recordingLookupRepo{created: make(chan *entity.Lookup, 16)}
}

func (r *recordingLookupRepo) Create(_ context.Context, lookup *entity.Lookup) error {
	r.created <- lookup
	return nil
}

func (r *recordingLookupRepo) FindOne(context.Context, ...specification.Specification) (*entity.Lookup, error) {
	return nil, nil
}

func (r *recordingLookupRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Lookup, error) {
	return nil, nil
}

func (r *recordingLookupRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return 0, nil
}

func TestConsumerPersistsLookupMessages(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	repo := newRecordingLookupRepo()
	consumer := NewConsumerService(pubSub, "lookup.completed.test", repo)
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService("lookup.completed.test", pubSub)

	msg := dto.LookupCompletedMessage{
		Kind:       entity.LookupKindParts,
		Query:      "front brake pads",
		VehicleId:  21131,
		Status:     "SUCCESS",
		RetryCount: 1,
		Result:     json.RawMessage(`{"part_name":"Brake Pad Set, disc brake"}`),
	}
	payload, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), payload))

	select {
	case lookup := <-repo.created:
		assert.Equal(t, entity.LookupKindParts, lookup.Kind)
		assert.Equal(t, "front brake pads", lookup.Query)
		assert.Equal(t, 21131, lookup.VehicleId)
		assert.Equal(t, "SUCCESS", lookup.Status)
		assert.Equal(t, 1, lookup.RetryCount)
		assert.NotEqual(t, uuid.Nil, lookup.Id)
	case <-time.After(2 * time.Second):
		t.Fatal("lookup message was not persisted")
	}
}

func TestConsumerSkipsInvalidPayloads(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	repo := newRecordingLookupRepo()
	consumer := NewConsumerService(pubSub, "lookup.completed.test", repo)
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService("lookup.completed.test", pubSub)
	require.NoError(t, publisher.Publish(context.Background(), []byte("not json")))

	good := dto.LookupCompletedMessage{Kind: entity.LookupKindVin, Query: "WBAAV33421FU91768", Status: "SUCCESS"}
	payload, err := json.Marshal(good)
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), payload))

	// The invalid message is acked and dropped; the valid one still arrives.
	select {
	case lookup := <-repo.created:
		assert.Equal(t, entity.LookupKindVin, lookup.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("valid message was not persisted after an invalid one")
	}
	assert.Empty(t, repo.created)
}
