package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/domain"
)

// Códigos estáveis do corpo de erro.
const (
	CodeValidation         = "VALIDATION"
	CodeInvalidBody        = "INVALID_BODY"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeModuleDisabled     = "MODULE_DISABLED"
	CodePasswordChange     = "PASSWORD_CHANGE_REQUIRED"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeConflict           = "CONFLICT"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeLocked             = "LOCKED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// A ordem importa: ValidationError também casa com ErrInvalidInput.
var errorMappings = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, CodeNotFound},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, CodeUnauthorized},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, CodeUnauthorized},
	{domain.ErrModuleDisabled, fiber.StatusForbidden, CodeModuleDisabled},
	{domain.ErrPasswordChangeRequired, fiber.StatusForbidden, CodePasswordChange},
	{domain.ErrAccountInactive, fiber.StatusForbidden, CodeAccountInactive},
	{domain.ErrForbidden, fiber.StatusForbidden, CodeForbidden},
	{domain.ErrDuplicate, fiber.StatusConflict, CodeConflict},
	{domain.ErrInUse, fiber.StatusConflict, CodeConflict},
	{domain.ErrConflict, fiber.StatusConflict, CodeConflict},
	{domain.ErrInvalidTransition, fiber.StatusConflict, CodeInvalidTransition},
	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, CodeInsufficientStock},
	{domain.ErrLocked, fiber.StatusTooManyRequests, CodeLocked},
	{domain.ErrQueueUnavailable, fiber.StatusServiceUnavailable, CodeServiceUnavailable},
}

// respondError traduz erros de domínio para dto.ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errInvalidBody) {
		return errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, err.Error())
	}
	var fe domain.FieldErrors
	if errors.As(err, &fe) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: CodeValidation, Message: "dados inválidos", Details: fe,
		})
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp := dto.ErrorResponse{Code: CodeValidation, Message: ve.Message}
		if ve.Field != "" {
			resp.Details = map[string][]string{ve.Field: {ve.Message}}
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: err.Error()})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.target.Error()})
		}
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("user_id", GetPrincipal(c).UserID).
		Msg("erro interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: CodeInternal, Message: "erro interno"})
}

func errorJSON(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler handler de erro do fiber.App: erros não tratados viram ErrorResponse.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusRequestEntityTooLarge:
			code = CodeValidation
		case fiber.StatusBadRequest:
			code = CodeInvalidBody
		}
		return errorJSON(c, fe.Code, code, fe.Message)
	}
	return respondError(c, err)
}
