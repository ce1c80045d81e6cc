package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/internal/entity"
	"ai-autoparts-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains completed-lookup messages off the in-process bus
// and persists them as history records, keeping the request path free of
// database writes.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	lookupRepo contract.LookupRepository
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	lookupRepo contract.LookupRepository,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		lookupRepo: lookupRepo,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.LookupCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal lookup message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	lookup := &entity.Lookup{
		Id:         uuid.New(),
		Kind:       payload.Kind,
		Query:      payload.Query,
		VehicleId:  payload.VehicleId,
		Status:     payload.Status,
		RetryCount: payload.RetryCount,
		Result:     payload.Result,
	}

	if err := cs.lookupRepo.Create(ctx, lookup); err != nil {
		log.Printf("[ERROR] Failed to persist lookup history: %v", err)
		msg.Nack() // Nack for retriable errors
		return
	}

	log.Printf("[INFO] Lookup recorded: kind=%s status=%s", payload.Kind, payload.Status)
	msg.Ack()
}
