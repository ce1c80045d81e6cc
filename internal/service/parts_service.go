package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/internal/entity"
	"ai-autoparts-be/internal/pkg/logger"
	"ai-autoparts-be/pkg/events"
	pktNats "ai-autoparts-be/pkg/nats"
	"ai-autoparts-be/pkg/partsagent"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Batch worker pool bounds. A batch never runs on fewer than minPartsWorkers
// slots or more than maxPartsWorkers, whatever its size.
const (
	minPartsWorkers = 2
	maxPartsWorkers = 10
)

// LookupRunner runs one parts lookup to completion.
type LookupRunner interface {
	Run(ctx context.Context, in partsagent.Input) (*partsagent.Outcome, error)
}

type IPartsService interface {
	Lookup(ctx context.Context, req *dto.PartsLookupRequest) (*dto.PartsLookupResponse, error)
}

type partsService struct {
	vehicleService   IVehicleService
	agent            LookupRunner
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	log              logger.ILogger
}

func NewPartsService(
	vehicleService IVehicleService,
	agent LookupRunner,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IPartsService {
	return &partsService{
		vehicleService:   vehicleService,
		agent:            agent,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

// Lookup resolves the vehicle once, then runs every requested part through
// the lookup workflow on a bounded worker pool. One result comes back per
// requested part, in request order; a failed item becomes an ERROR result
// instead of failing the batch.
func (s *partsService) Lookup(ctx context.Context, req *dto.PartsLookupRequest) (*dto.PartsLookupResponse, error) {
	resolved, err := s.vehicleService.Resolve(ctx, req.Vehicle)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	results := make([]dto.PartResult, len(req.Parts))

	var g errgroup.Group
	g.SetLimit(partsWorkerCount(len(req.Parts)))

	for i, part := range req.Parts {
		i, part := i, part
		g.Go(func() error {
			results[i] = s.lookupOne(ctx, resolved, part)
			return nil
		})
	}
	// workers never return errors, failures are absorbed per item
	_ = g.Wait()

	s.log.Info("parts_lookup", "batch completed", map[string]interface{}{
		"vehicleId": resolved.VehicleId,
		"parts":     len(req.Parts),
		"duration":  time.Since(started).String(),
	})

	return &dto.PartsLookupResponse{
		VehicleId: resolved.VehicleId,
		Results:   results,
	}, nil
}

func (s *partsService) lookupOne(ctx context.Context, resolved *ResolvedVehicle, partDescription string) dto.PartResult {
	outcome, err := s.agent.Run(ctx, partsagent.Input{
		PartDescription: partDescription,
		Categories:      resolved.Categories,
		VehicleID:       resolved.VehicleId,
		CountryFilterID: resolved.CountryFilterId,
	})
	if err != nil {
		s.log.Error("parts_lookup", "lookup failed", map[string]interface{}{
			"part":  partDescription,
			"error": err.Error(),
		})
		res := dto.PartResult{
			PartDescription: partDescription,
			Status:          string(partsagent.StatusError),
			Message:         err.Error(),
			OemNumbers:      []string{},
		}
		s.recordLookup(ctx, resolved.VehicleId, partDescription, res)
		return res
	}

	res := dto.PartResult{
		PartDescription: partDescription,
		Status:          string(outcome.Status),
		PartName:        outcome.PartName,
		CategoryId:      outcome.CategoryID,
		CategoryName:    outcome.CategoryName,
		Message:         outcome.Message,
		RetryCount:      outcome.RetryCount,
		OemNumbers:      outcome.OEMNumbers,
		ImageUrl:        outcome.ImageURL,
	}
	s.recordLookup(ctx, resolved.VehicleId, partDescription, res)
	return res
}

func (s *partsService) recordLookup(ctx context.Context, vehicleID int, partDescription string, res dto.PartResult) {
	raw, _ := json.Marshal(res)
	msg := dto.LookupCompletedMessage{
		Kind:       entity.LookupKindParts,
		Query:      partDescription,
		VehicleId:  vehicleID,
		Status:     res.Status,
		RetryCount: res.RetryCount,
		Result:     raw,
	}
	payload, _ := json.Marshal(msg)
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("parts_lookup", "failed to queue lookup history", map[string]interface{}{"error": err.Error()})
	}

	if s.eventPublisher != nil {
		evt := events.NewPartsLookupCompleted(uuid.NewString(), partDescription, res.Status, vehicleID, res.RetryCount)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish PARTS_LOOKUP_COMPLETED event: %v\n", err)
		}
	}
}

func partsWorkerCount(n int) int {
	if n < minPartsWorkers {
		return minPartsWorkers
	}
	if n > maxPartsWorkers {
		return maxPartsWorkers
	}
	return n
}
