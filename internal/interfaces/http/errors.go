package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// notFoundCodes código por eslabón de la cadena de pertenencia.
var notFoundCodes = []struct {
	err  error
	code string
}{
	{domain.ErrUserNotFound, "USER_NOT_FOUND"},
	{domain.ErrCompanyNotFound, "COMPANY_NOT_FOUND"},
	{domain.ErrClientNotFound, "CLIENT_NOT_FOUND"},
	{domain.ErrProductNotFound, "PRODUCT_NOT_FOUND"},
	{domain.ErrInvoiceNotFound, "INVOICE_NOT_FOUND"},
	{domain.ErrEstimateNotFound, "ESTIMATE_NOT_FOUND"},
	{domain.ErrPaymentNotFound, "PAYMENT_NOT_FOUND"},
}

// writeError traduce un error de la aplicación a status + dto.ErrorResponse.
// Es el único punto donde los errores de dominio se convierten en HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: verr.Fields}
	case errors.Is(err, domain.ErrValidationFailed), errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: "token requerido"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrNotFound):
		for _, nf := range notFoundCodes {
			if errors.Is(err, nf.err) {
				return fiber.StatusNotFound, dto.ErrorResponse{Code: nf.code, Message: nf.err.Error()}
			}
		}
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrCommitFailed):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "COMMIT_FAILED", Message: domain.ErrCommitFailed.Error()}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
