package controller

import (
	"io"
	"path/filepath"

	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/internal/pkg/serverutils"
	"ai-autoparts-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	SearchImages(ctx *fiber.Ctx) error
	ReverseImageSearch(ctx *fiber.Ctx) error
	AnalyzePhoto(ctx *fiber.Ctx) error
}

type searchController struct {
	imageSearchService   service.IImageSearchService
	reverseImageService  service.IReverseImageService
	photoAnalysisService service.IPhotoAnalysisService
}

func NewSearchController(
	imageSearchService service.IImageSearchService,
	reverseImageService service.IReverseImageService,
	photoAnalysisService service.IPhotoAnalysisService,
) ISearchController {
	return &searchController{
		imageSearchService:   imageSearchService,
		reverseImageService:  reverseImageService,
		photoAnalysisService: photoAnalysisService,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search")
	h.Post("/images", c.SearchImages)
	h.Post("/reverse-image", c.ReverseImageSearch)
	h.Post("/analyze-photo", c.AnalyzePhoto)
}

func (c *searchController) SearchImages(ctx *fiber.Ctx) error {
	var req dto.ImageSearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.imageSearchService.Search(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse(res))
}

func (c *searchController) ReverseImageSearch(ctx *fiber.Ctx) error {
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

	query := ctx.FormValue("query", "automotive")
	ext := filepath.Ext(fileHeader.Filename)

	res, err := c.reverseImageService.SearchByImage(ctx.Context(), data, ext, query)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse(res))
}

func (c *searchController) AnalyzePhoto(ctx *fiber.Ctx) error {
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

	res, err := c.photoAnalysisService.Analyze(ctx.Context(), data)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse(res))
}
