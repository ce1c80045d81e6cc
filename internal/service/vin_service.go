package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/internal/entity"
	"ai-autoparts-be/internal/pkg/logger"
	"ai-autoparts-be/pkg/events"
	"ai-autoparts-be/pkg/llm"
	pktNats "ai-autoparts-be/pkg/nats"
	"ai-autoparts-be/pkg/ocr"
	"ai-autoparts-be/pkg/prompts"
	"ai-autoparts-be/pkg/utils"
	"ai-autoparts-be/pkg/vin"

	"github.com/google/uuid"
)

type IVinService interface {
	Lookup(ctx context.Context, rawVin string) (*dto.VinLookupResponse, error)
	LookupFromImage(ctx context.Context, image []byte) (*dto.VinFromImageResponse, error)
}

type vinService struct {
	decoder          *vin.Decoder
	ocr              *ocr.Client
	llmProvider      llm.Provider
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	log              logger.ILogger
}

func NewVinService(
	decoder *vin.Decoder,
	ocrClient *ocr.Client,
	llmProvider llm.Provider,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IVinService {
	return &vinService{
		decoder:          decoder,
		ocr:              ocrClient,
		llmProvider:      llmProvider,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func (s *vinService) Lookup(ctx context.Context, rawVin string) (*dto.VinLookupResponse, error) {
	normalized, err := vin.Validate(rawVin)
	if err != nil {
		return nil, err
	}

	vehicles, err := s.decoder.Decode(ctx, normalized)
	if err != nil {
		s.recordLookup(ctx, normalized, "ERROR", nil)
		return nil, err
	}

	resp := &dto.VinLookupResponse{
		Vin:      normalized,
		Vehicles: toDecodedVehicles(vehicles),
	}

	status := "SUCCESS"
	if len(vehicles) == 0 {
		status = "NO_MATCH"
	}
	s.recordLookup(ctx, normalized, status, resp)

	return resp, nil
}

// LookupFromImage reads a VIN off a photo of a document or chassis plate. A
// regex scan on the OCR text is tried first; only ambiguous text goes to the
// model.
func (s *vinService) LookupFromImage(ctx context.Context, image []byte) (*dto.VinFromImageResponse, error) {
	text, err := s.ocr.ExtractText(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("ocr failed: %w", err)
	}

	candidate, ok := vin.Extract(text)
	if !ok {
		candidate, err = s.extractWithModel(ctx, text)
		if err != nil {
			s.log.Warn("vin_lookup", "model could not extract a vin", map[string]interface{}{"error": err.Error()})
			return &dto.VinFromImageResponse{OcrText: text, Vehicles: []dto.DecodedVehicle{}}, nil
		}
	}

	lookup, err := s.Lookup(ctx, candidate)
	if err != nil {
		return nil, err
	}

	return &dto.VinFromImageResponse{
		Vin:      lookup.Vin,
		OcrText:  text,
		Vehicles: lookup.Vehicles,
	}, nil
}

func (s *vinService) extractWithModel(ctx context.Context, ocrText string) (string, error) {
	prompt, err := prompts.Render(prompts.ExtractVIN, map[string]string{"ocr_text": ocrText})
	if err != nil {
		return "", err
	}

	response, err := s.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	extracted, err := utils.ParseXMLTag(response, "vin")
	if err != nil || strings.TrimSpace(extracted) == "" {
		return "", fmt.Errorf("no vin found in text")
	}
	return vin.Validate(extracted)
}

func (s *vinService) recordLookup(ctx context.Context, vinNumber, status string, result interface{}) {
	var raw json.RawMessage
	if result != nil {
		raw, _ = json.Marshal(result)
	}
	msg := dto.LookupCompletedMessage{
		Kind:   entity.LookupKindVin,
		Query:  vinNumber,
		Status: status,
		Result: raw,
	}
	payload, _ := json.Marshal(msg)
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("vin_lookup", "failed to queue lookup history", map[string]interface{}{"error": err.Error()})
	}

	if s.eventPublisher != nil {
		evt := events.NewVinLookupCompleted(uuid.NewString(), vinNumber, status)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish VIN_LOOKUP_COMPLETED event: %v\n", err)
		}
	}
}

func toDecodedVehicles(vehicles []vin.DecodedVehicle) []dto.DecodedVehicle {
	out := make([]dto.DecodedVehicle, len(vehicles))
	for i, v := range vehicles {
		out[i] = dto.DecodedVehicle{
			Manufacturer: v.Manufacturer,
			Model:        v.Model,
			TypeName:     v.TypeName,
			YearFrom:     v.YearFrom,
			YearTo:       v.YearTo,
			CarIds:       v.CarIds,
			EngineCodes:  v.EngineCodes,
		}
	}
	return out
}
