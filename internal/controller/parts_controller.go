package controller

import (
	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/internal/pkg/serverutils"
	"ai-autoparts-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPartsController interface {
	RegisterRoutes(r fiber.Router)
	Lookup(ctx *fiber.Ctx) error
	ResolveVehicle(ctx *fiber.Ctx) error
}

type partsController struct {
	partsService   service.IPartsService
	vehicleService service.IVehicleService
}

func NewPartsController(
	partsService service.IPartsService,
	vehicleService service.IVehicleService,
) IPartsController {
	return &partsController{
		partsService:   partsService,
		vehicleService: vehicleService,
	}
}

func (c *partsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/parts")
	h.Post("/lookup", c.Lookup)
	h.Post("/resolve-vehicle", c.ResolveVehicle)
}

func (c *partsController) Lookup(ctx *fiber.Ctx) error {
	var req dto.PartsLookupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.partsService.Lookup(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse(res))
}

// ResolveVehicle exposes vehicle resolution on its own so clients can verify
// the category tree before firing a batch lookup.
func (c *partsController) ResolveVehicle(ctx *fiber.Ctx) error {
	var req dto.VehicleQuery
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	resolved, err := c.vehicleService.Resolve(ctx.Context(), req)
	if err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
	}

	res := &dto.VehicleResolveResponse{
		VehicleId:    resolved.VehicleId,
		CategoriesMd: resolved.Categories.Markdown(),
	}
	if resolved.Details != nil {
		res.Details = map[string]interface{}{
			"manufacturer": resolved.Details.ManufacturerName,
			"model_type":   resolved.Details.ModelType,
			"engine":       resolved.Details.TypeEngineName,
			"fuel_type":    resolved.Details.FuelType,
			"capacity_lt":  resolved.Details.CapacityLt,
		}
	}
	return ctx.JSON(serverutils.SuccessResponse(res))
}
