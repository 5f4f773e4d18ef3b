package controller

import (
	"strings"

	"bookbodh-be/internal/dto"
	"bookbodh-be/internal/pkg/serverutils"
	"bookbodh-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBookController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Upload(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	GetChunks(ctx *fiber.Ctx) error
	Reextract(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type bookController struct {
	bookService service.IBookService
}

func NewBookController(bookService service.IBookService) IBookController {
	return &bookController{
		bookService: bookService,
	}
}

func (c *bookController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/book/v1")
	h.Use(auth)
	h.Get("", c.GetAll)
	h.Post("", c.Upload)
	h.Get(":id", c.Show)
	h.Get(":id/chunks", c.GetChunks)
	h.Post(":id/extract", c.Reextract)
	h.Delete(":id", c.Delete)
}

func (c *bookController) Upload(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	header, data, err := readUpload(ctx)
	if err != nil {
		return err
	}

	var req dto.UploadBookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Title) == "" {
		req.Title = fileStem(header.Filename)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.bookService.Upload(ctx.UserContext(), userId, &req, header.Filename, data)
	if err != nil {
		return mapError(err)
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Book uploaded, extraction queued", res))
}

func (c *bookController) GetAll(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.bookService.GetAll(ctx.UserContext(), userId, ctx.Query("q"))
	if err != nil {
		return mapError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all books", res))
}

func (c *bookController) Show(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	res, err := c.bookService.Show(ctx.UserContext(), userId, id)
	if err != nil {
		return mapError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show book", res))
}

func (c *bookController) GetChunks(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.bookService.GetChunks(ctx.UserContext(), userId, id, limit, offset)
	if err != nil {
		return mapError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get book chunks", res))
}

func (c *bookController) Reextract(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	res, err := c.bookService.Reextract(ctx.UserContext(), userId, id)
	if err != nil {
		return mapError(err)
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Extraction queued", res))
}

func (c *bookController) Delete(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	if err := c.bookService.Delete(ctx.UserContext(), userId, id); err != nil {
		return mapError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete book", nil))
}
