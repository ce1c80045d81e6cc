package controller

import (
	"errors"
	"io"

	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/internal/pkg/serverutils"
	"ai-autoparts-be/internal/service"
	"ai-autoparts-be/pkg/vin"

	"github.com/gofiber/fiber/v2"
)

type IVinController interface {
	RegisterRoutes(r fiber.Router)
	Lookup(ctx *fiber.Ctx) error
	LookupFromImage(ctx *fiber.Ctx) error
}

type vinController struct {
	service service.IVinService
}

func NewVinController(service service.IVinService) IVinController {
	return &vinController{service: service}
}

func (c *vinController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/vin")
	h.Post("/lookup", c.Lookup)
	h.Post("/lookup-image", c.LookupFromImage)
}

func (c *vinController) Lookup(ctx *fiber.Ctx) error {
	var req dto.VinLookupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Lookup(ctx.Context(), req.Vin)
	if err != nil {
		if errors.Is(err, vin.ErrInvalidVIN) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid vin"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse(res))
}

func (c *vinController) LookupFromImage(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "image file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "cannot read uploaded image"))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "cannot read uploaded image"))
	}

	res, err := c.service.LookupFromImage(ctx.Context(), data)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse(res))
}
