package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// EstimateHandler cotizaciones de una empresa.
type EstimateHandler struct {
	uc *billing.EstimateUseCase
}

// NewEstimateHandler construye el handler.
func NewEstimateHandler(uc *billing.EstimateUseCase) *EstimateHandler {
	return &EstimateHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cotización
// @Tags         estimates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        body  body  dto.CreateEstimateRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.EstimateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/estimates [post]
func (h *EstimateHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEstimateRequest
	if err := bind(c, &in); err != nil {
		return badBody(c)
	}
	in.CompanyID = c.Params("companyId")
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener cotización
// @Tags         estimates
// @Security     Bearer
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        id         path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.EstimateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/estimates/{id} [get]
func (h *EstimateHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), resourceRef(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar cotizaciones
// @Tags         estimates
// @Security     Bearer
// @Produce      json
// @Param        companyId  path   string  true   "ID de la empresa"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.EstimateListResponse
// @Router       /api/companies/{companyId}/estimates [get]
func (h *EstimateHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), listRequest(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cotización (solo en borrador)
// @Tags         estimates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        id         path  string  true  "ID de la cotización"
// @Param        body  body  dto.UpdateEstimateRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.EstimateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/estimates/{id} [patch]
func (h *EstimateHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateEstimateRequest
	if err := bind(c, &in); err != nil {
		return badBody(c)
	}
	in.CompanyID, in.EstimateID = c.Params("companyId"), c.Params("id")
	out, err := h.uc.Update(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cotización
// @Tags         estimates
// @Security     Bearer
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        id         path  string  true  "ID de la cotización"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/estimates/{id} [delete]
func (h *EstimateHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), resourceRef(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Convert godoc
// @Summary      Convertir cotización en factura
// @Description  La factura conserva los precios cotizados. Una cotización solo se convierte una vez.
// @Tags         estimates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        id         path  string  true  "ID de la cotización"
// @Param        body  body  dto.ConvertEstimateRequest  false  "Número y fechas opcionales"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/estimates/{id}/convert [post]
func (h *EstimateHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertEstimateRequest
	if err := bind(c, &in); err != nil {
		return badBody(c)
	}
	in.CompanyID, in.EstimateID = c.Params("companyId"), c.Params("id")
	out, err := h.uc.ConvertToInvoice(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
