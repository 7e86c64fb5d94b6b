package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/domain"
)

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRespondError_Mapeamento(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, fiber.StatusNotFound, CodeNotFound},
		{fmt.Errorf("item: %w", domain.ErrNotFound), fiber.StatusNotFound, CodeNotFound},
		{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, CodeUnauthorized},
		{domain.ErrForbidden, fiber.StatusForbidden, CodeForbidden},
		{domain.ErrModuleDisabled, fiber.StatusForbidden, CodeModuleDisabled},
		{domain.ErrAccountInactive, fiber.StatusForbidden, CodeAccountInactive},
		{domain.ErrDuplicate, fiber.StatusConflict, CodeConflict},
		{domain.ErrInUse, fiber.StatusConflict, CodeConflict},
		{domain.ErrInvalidTransition, fiber.StatusConflict, CodeInvalidTransition},
		{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, CodeInsufficientStock},
		{domain.ErrLocked, fiber.StatusTooManyRequests, CodeLocked},
		{domain.ErrQueueUnavailable, fiber.StatusServiceUnavailable, CodeServiceUnavailable},
		{domain.ErrInvalidInput, fiber.StatusBadRequest, CodeValidation},
		{errors.New("boom"), fiber.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp).Code)
		})
	}
}

func TestRespondError_ValidationError(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return respondError(c, domain.NewValidationError("codigo", "código já utilizado"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, CodeValidation, body.Code)
	assert.Equal(t, []string{"código já utilizado"}, body.Details["codigo"])
}

type itemBody struct {
	Nome    string `json:"nome" validate:"required"`
	Unidade string `json:"unidade" validate:"required,max=3"`
	Email   string `json:"email" validate:"omitempty,email"`
}

func TestBindJSON(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var in itemBody
		if err := bindJSON(c, &in); err != nil {
			return respondError(c, err)
		}
		return c.JSON(in)
	})

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp := post(`{"nome":"Papel A4","unidade":"CX"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = post(`{"nome":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeInvalidBody, decodeError(t, resp).Code)
	resp.Body.Close()

	resp = post(`{"unidade":"PACOTE","email":"x"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	resp.Body.Close()
	assert.Equal(t, CodeValidation, body.Code)
	assert.Equal(t, []string{"campo obrigatório"}, body.Details["nome"])
	assert.Equal(t, []string{"máximo de 3 caracteres"}, body.Details["unidade"])
	assert.Equal(t, []string{"e-mail inválido"}, body.Details["email"])
}

func TestErrorHandler_FiberError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nao-existe", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, CodeNotFound, decodeError(t, resp).Code)
}
