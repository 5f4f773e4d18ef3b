package controller

import (
	"strconv"

	"bookbodh-be/internal/pkg/serverutils"
	"bookbodh-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDiagnosticsController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	GetLogs(ctx *fiber.Ctx) error
	GetLogById(ctx *fiber.Ctx) error
	DryRunExtract(ctx *fiber.Ctx) error
}

type diagnosticsController struct {
	diagnosticsService service.IDiagnosticsService
}

func NewDiagnosticsController(diagnosticsService service.IDiagnosticsService) IDiagnosticsController {
	return &diagnosticsController{
		diagnosticsService: diagnosticsService,
	}
}

func (c *diagnosticsController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/diagnostics/v1")
	h.Use(auth)
	h.Get("logs", c.GetLogs)
	h.Get("logs/:id", c.GetLogById)
	h.Post("extract", c.DryRunExtract)
}

func (c *diagnosticsController) GetLogs(ctx *fiber.Ctx) error {
	res, err := c.diagnosticsService.GetLogs(ctx.UserContext(),
		ctx.Query("level"),
		ctx.QueryInt("limit", 100),
		ctx.QueryInt("offset", 0),
	)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get logs", res))
}

func (c *diagnosticsController) GetLogById(ctx *fiber.Ctx) error {
	res, err := c.diagnosticsService.GetLogById(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get log", res))
}

func (c *diagnosticsController) DryRunExtract(ctx *fiber.Ctx) error {
	header, data, err := readUpload(ctx)
	if err != nil {
		return err
	}

	words := 0
	if v := ctx.FormValue("words"); v != "" {
		words, err = strconv.Atoi(v)
		if err != nil {
			return serverutils.NewAppError(fiber.StatusBadRequest, "words must be a number", err)
		}
	}

	res, err := c.diagnosticsService.DryRunExtract(ctx.UserContext(), fileStem(header.Filename), data, words)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success extract", res))
}
