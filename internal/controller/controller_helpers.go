package controller

import (
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"bookbodh-be/internal/pkg/logger"
	"bookbodh-be/internal/pkg/serverutils"
	"bookbodh-be/internal/service"
	"bookbodh-be/pkg/pipeline/chunk"
	"bookbodh-be/pkg/pipeline/extract"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// mapError attaches an HTTP status to known service errors.
func mapError(err error) error {
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		return serverutils.NewAppError(fiber.StatusNotFound, "Book not found", err)
	case errors.Is(err, service.ErrBookBusy):
		return serverutils.NewAppError(fiber.StatusConflict, "Book is already being processed", err)
	case errors.Is(err, service.ErrQueryRequired):
		return serverutils.NewAppError(fiber.StatusBadRequest, "Query is required", err)
	case errors.Is(err, extract.ErrEmptyDocument):
		return serverutils.NewAppError(fiber.StatusBadRequest, "Uploaded file is empty", err)
	case errors.Is(err, extract.ErrNotPDF):
		return serverutils.NewAppError(fiber.StatusUnsupportedMediaType, "Only PDF files are supported", err)
	case errors.Is(err, chunk.ErrInvalidTargetWords):
		return serverutils.NewAppError(fiber.StatusBadRequest, "Chunk size must not be negative", err)
	case errors.Is(err, logger.ErrLogNotFound):
		return serverutils.NewAppError(fiber.StatusNotFound, "Log entry not found", err)
	}
	return err
}

func currentUser(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, serverutils.NewAppError(fiber.StatusUnauthorized, "Invalid user ID in token", err)
	}
	return userId, nil
}

func pathID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, serverutils.NewAppError(fiber.StatusBadRequest, "Invalid ID", err)
	}
	return id, nil
}

// readUpload returns the bytes of the multipart "file" field.
func readUpload(ctx *fiber.Ctx) (*multipart.FileHeader, []byte, error) {
	header, err := ctx.FormFile("file")
	if err != nil {
		return nil, nil, serverutils.NewAppError(fiber.StatusBadRequest, "Missing file field", err)
	}

	f, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return header, data, nil
}

func fileStem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}
