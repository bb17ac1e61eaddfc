package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/analytics"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// SummaryHandler resumen financiero de una empresa.
type SummaryHandler struct {
	uc *analytics.SummaryUseCase
}

// NewSummaryHandler construye el handler.
func NewSummaryHandler(uc *analytics.SummaryUseCase) *SummaryHandler {
	return &SummaryHandler{uc: uc}
}

// GetSummary devuelve conteos, facturado, pagado, pendiente y facturas vencidas a la fecha.
// GET /api/companies/:companyId/summary
func (h *SummaryHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), dto.CompanyRef{CompanyID: c.Params("companyId")})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
