package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/internal/pkg/logger"
	"ai-autoparts-be/pkg/catalog"
	"ai-autoparts-be/pkg/llm"
	"ai-autoparts-be/pkg/prompts"
	"ai-autoparts-be/pkg/utils"
)

// ResolvedVehicle is the internal outcome of vehicle resolution, carrying
// everything a parts lookup needs.
type ResolvedVehicle struct {
	VehicleId       int
	CountryFilterId int
	Details         *catalog.VehicleDetails
	Categories      catalog.CategoryTree
}

type IVehicleService interface {
	Resolve(ctx context.Context, q dto.VehicleQuery) (*ResolvedVehicle, error)
}

// vehicleCatalog is the slice of the parts catalog API vehicle resolution
// touches.
type vehicleCatalog interface {
	ListManufacturers(ctx context.Context, typeID int) ([]catalog.Manufacturer, error)
	ListModels(ctx context.Context, typeID, manufacturerID, langID, countryFilterID int) ([]catalog.Model, error)
	ListVehicleIDs(ctx context.Context, typeID, modelID, langID, countryFilterID int) ([]int, error)
	VehicleDetails(ctx context.Context, typeID, vehicleID, langID, countryFilterID int) (*catalog.VehicleDetails, error)
	FetchCategoryTree(ctx context.Context, typeID, vehicleID, langID int) (catalog.CategoryTree, error)
}

type vehicleService struct {
	catalog     vehicleCatalog
	llmProvider llm.Provider
	log         logger.ILogger
}

func NewVehicleService(cat vehicleCatalog, llmProvider llm.Provider, log logger.ILogger) IVehicleService {
	return &vehicleService{
		catalog:     cat,
		llmProvider: llmProvider,
		log:         log,
	}
}

// Resolve maps a vehicle query to a concrete catalog vehicle id and its
// category tree. When a vehicle id is already known only the tree is fetched;
// otherwise manufacturer, model and vehicle are resolved in sequence.
func (s *vehicleService) Resolve(ctx context.Context, q dto.VehicleQuery) (*ResolvedVehicle, error) {
	countryID := catalog.CountryFilterID(q.Country)

	vehicleID := q.VehicleId
	if vehicleID == 0 {
		var err error
		vehicleID, err = s.resolveVehicleID(ctx, q, countryID)
		if err != nil {
			return nil, err
		}
	}

	details, err := s.catalog.VehicleDetails(ctx, catalog.TypePassengerCar, vehicleID, catalog.LangEnglish, countryID)
	if err != nil {
		s.log.Warn("vehicle", "vehicle details unavailable", map[string]interface{}{
			"vehicleId": vehicleID,
			"error":     err.Error(),
		})
		details = nil
	}

	tree, err := s.catalog.FetchCategoryTree(ctx, catalog.TypePassengerCar, vehicleID, catalog.LangEnglish)
	if err != nil {
		return nil, err
	}
	if len(tree) == 0 {
		return nil, fmt.Errorf("no categories found for vehicle %d", vehicleID)
	}

	return &ResolvedVehicle{
		VehicleId:       vehicleID,
		CountryFilterId: countryID,
		Details:         details,
		Categories:      tree,
	}, nil
}

func (s *vehicleService) resolveVehicleID(ctx context.Context, q dto.VehicleQuery, countryID int) (int, error) {
	if q.Manufacturer == "" || q.Model == "" || q.Year == 0 {
		return 0, fmt.Errorf("manufacturer, model and year are required to resolve a vehicle")
	}

	manufacturerID, err := s.matchManufacturer(ctx, q.Manufacturer)
	if err != nil {
		return 0, err
	}

	modelID, err := s.matchModel(ctx, q, manufacturerID, countryID)
	if err != nil {
		return 0, err
	}

	return s.matchVehicle(ctx, q, modelID, countryID)
}

func (s *vehicleService) matchManufacturer(ctx context.Context, make string) (int, error) {
	manufacturers, err := s.catalog.ListManufacturers(ctx, catalog.TypePassengerCar)
	if err != nil {
		return 0, err
	}

	for _, m := range manufacturers {
		if strings.EqualFold(m.ManufacturerName, make) {
			return m.ManufacturerId, nil
		}
	}
	return 0, fmt.Errorf("manufacturer %q not found", make)
}

// matchModel shortlists the manufacturer's models by production year and asks
// the model to pick when several remain.
func (s *vehicleService) matchModel(ctx context.Context, q dto.VehicleQuery, manufacturerID, countryID int) (int, error) {
	models, err := s.catalog.ListModels(ctx, catalog.TypePassengerCar, manufacturerID, catalog.LangEnglish, countryID)
	if err != nil {
		return 0, err
	}

	var shortlist []catalog.Model
	for _, m := range models {
		if modelYearInRange(m, q.Year) {
			shortlist = append(shortlist, m)
		}
	}
	if len(shortlist) == 0 {
		return 0, fmt.Errorf("no models found for year %d", q.Year)
	}
	if len(shortlist) == 1 {
		return shortlist[0].ModelId, nil
	}

	return s.selectModelWithLLM(ctx, q, shortlist)
}

func (s *vehicleService) selectModelWithLLM(ctx context.Context, q dto.VehicleQuery, shortlist []catalog.Model) (int, error) {
	info := map[string]interface{}{
		"model":  q.Model,
		"series": q.Series,
		"trim":   q.Trim,
		"year":   q.Year,
	}
	if q.Cylinders > 0 {
		info["cylinders"] = q.Cylinders
	}
	if q.FuelType != "" {
		info["fuel_type"] = q.FuelType
	}
	vehicleInfo, _ := json.MarshalIndent(info, "", "  ")

	var bullets strings.Builder
	for _, m := range shortlist {
		bullets.WriteString(fmt.Sprintf("- %s (ID: %d)\n", m.ModelName, m.ModelId))
	}

	prompt, err := prompts.Render(prompts.SelectModel, map[string]string{
		"vehicle_info": string(vehicleInfo),
		"models":       strings.TrimRight(bullets.String(), "\n"),
	})
	if err != nil {
		return 0, err
	}

	response, err := s.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return 0, err
	}

	idText, err := utils.ParseXMLTag(response, "modelId")
	if err != nil {
		return 0, fmt.Errorf("could not extract model id from answer: %w", err)
	}
	modelID, err := strconv.Atoi(strings.TrimSpace(idText))
	if err != nil {
		return 0, fmt.Errorf("invalid model id %q in answer", idText)
	}

	for _, m := range shortlist {
		if m.ModelId == modelID {
			return modelID, nil
		}
	}
	return 0, fmt.Errorf("model id %d is not on the shortlist", modelID)
}

// matchVehicle iterates the model's vehicle ids and takes the first whose
// details survive the year, cylinder-count and fuel-type filters. Filters
// with no corresponding query input are skipped; a vehicle whose details
// cannot be fetched is skipped too.
func (s *vehicleService) matchVehicle(ctx context.Context, q dto.VehicleQuery, modelID, countryID int) (int, error) {
	ids, err := s.catalog.ListVehicleIDs(ctx, catalog.TypePassengerCar, modelID, catalog.LangEnglish, countryID)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("no vehicles found for model %d", modelID)
	}

	for _, id := range ids {
		details, err := s.catalog.VehicleDetails(ctx, catalog.TypePassengerCar, id, catalog.LangEnglish, countryID)
		if err != nil {
			continue
		}
		if vehicleMatchesQuery(details, q) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("no vehicles found matching year %d", q.Year)
}

func vehicleMatchesQuery(d *catalog.VehicleDetails, q dto.VehicleQuery) bool {
	if !constructionCoversYear(d, q.Year) {
		return false
	}
	if q.Cylinders > 0 && d.NumberOfCylinders != nil && *d.NumberOfCylinders != q.Cylinders {
		return false
	}
	if q.FuelType != "" && d.FuelType != "" && !strings.EqualFold(d.FuelType, q.FuelType) {
		return false
	}
	return true
}

// modelYearInRange checks q.Year against a model's production interval. An
// open end means the model is still in production.
func modelYearInRange(m catalog.Model, year int) bool {
	from, ok := leadingYear(m.ModelYearFrom)
	if !ok {
		return false
	}
	if m.ModelYearTo == nil || *m.ModelYearTo == "" {
		return year >= from
	}
	to, ok := leadingYear(*m.ModelYearTo)
	if !ok {
		return false
	}
	return from <= year && year <= to
}

func constructionCoversYear(d *catalog.VehicleDetails, year int) bool {
	from, ok := leadingYear(d.ConstructionIntervalStart)
	if !ok {
		return false
	}
	if d.ConstructionIntervalEnd == "" {
		return year >= from
	}
	to, ok := leadingYear(d.ConstructionIntervalEnd)
	if !ok {
		return false
	}
	return from <= year && year <= to
}

// leadingYear parses the year out of interval strings like "2005-03".
func leadingYear(s string) (int, bool) {
	part, _, _ := strings.Cut(strings.TrimSpace(s), "-")
	year, err := strconv.Atoi(part)
	if err != nil || year == 0 {
		return 0, false
	}
	return year, true
}
