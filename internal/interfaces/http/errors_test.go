package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

func TestMapError_CodigosPorError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", domain.NewValidationError("due_date", "no puede ser anterior"), fiber.StatusBadRequest, "VALIDATION"},
		{"sin identidad", domain.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHENTICATED"},
		{"credenciales", domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"usuario", domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
		{"empresa", domain.ErrCompanyNotFound, fiber.StatusNotFound, "COMPANY_NOT_FOUND"},
		{"pago envuelto", fmt.Errorf("borrar: %w", domain.ErrPaymentNotFound), fiber.StatusNotFound, "PAYMENT_NOT_FOUND"},
		{"duplicado", fmt.Errorf("%w: INV-000001", domain.ErrDuplicate), fiber.StatusConflict, "DUPLICATE"},
		{"conflicto", domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
		{"email", domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
		{"commit", fmt.Errorf("%w: conexión cerrada", domain.ErrCommitFailed), fiber.StatusInternalServerError, "COMMIT_FAILED"},
		{"desconocido", errors.New("pgx: algo raro"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestMapError_NoFiltraDetalleInterno(t *testing.T) {
	_, body := mapError(fmt.Errorf("%w: dial tcp 10.0.0.5:5432", domain.ErrCommitFailed))
	assert.NotContains(t, body.Message, "10.0.0.5")

	_, body = mapError(errors.New("pgx: password authentication failed"))
	assert.Equal(t, "error interno", body.Message)
}

func TestMapError_CamposDeValidacion(t *testing.T) {
	verr := domain.NewValidationError("lines[0].quantity", "debe ser mayor a 0")
	verr.Add("due_date", "requerido")
	_, body := mapError(verr)
	assert.Len(t, body.Fields, 2)
	assert.Equal(t, "lines[0].quantity", body.Fields[0].Field)
}
