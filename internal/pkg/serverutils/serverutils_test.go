package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "unit-test-secret"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return tok
}

func TestParseUserToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name    string
		token   string
		secret  string
		want    string
		wantErr error
	}{
		{"sub claim", sign(t, secret, jwt.MapClaims{"sub": "u-1", "exp": exp}), secret, "u-1", nil},
		{"user_id claim", sign(t, secret, jwt.MapClaims{"user_id": "u-2", "exp": exp}), secret, "u-2", nil},
		{"missing", "", secret, "", ErrMissingToken},
		{"no secret configured", sign(t, secret, jwt.MapClaims{"sub": "u"}), "", "", ErrInvalidToken},
		{"wrong key", sign(t, "other", jwt.MapClaims{"sub": "u"}), secret, "", ErrInvalidToken},
		{"expired", sign(t, secret, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}), secret, "", ErrInvalidToken},
		{"no subject", sign(t, secret, jwt.MapClaims{"exp": exp}), secret, "", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUserToken(tt.token, tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/me", NewJwtMiddleware(secret), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, secret, jwt.MapClaims{"sub": "abc"}))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "abc", string(body))
}

type sample struct {
	Title string `json:"title" validate:"required"`
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/validation", func(c *fiber.Ctx) error { return ValidateRequest(sample{}) })
	app.Get("/app", func(c *fiber.Ctx) error {
		return NewAppError(fiber.StatusNotFound, "Book not found", errors.New("missing"))
	})
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrBadRequest })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("boom") })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.JSON(SuccessResponse("fine", 1)) })

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/validation", fiber.StatusBadRequest, "Invalid request"},
		{"/app", fiber.StatusNotFound, "Book not found"},
		{"/fiber", fiber.StatusBadRequest, "Bad Request"},
		{"/plain", fiber.StatusInternalServerError, "boom"},
		{"/ok", fiber.StatusOK, "fine"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body struct {
				Success bool              `json:"success"`
				Message string            `json:"message"`
				Errors  map[string]string `json:"errors"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.status == fiber.StatusOK, body.Success)
			if tt.path == "/validation" {
				assert.Equal(t, "required", body.Errors["title"])
			}
		})
	}
}
