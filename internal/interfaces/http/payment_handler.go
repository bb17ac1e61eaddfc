package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// PaymentHandler pagos de una factura.
type PaymentHandler struct {
	uc *billing.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *billing.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func invoiceRef(c *fiber.Ctx) dto.InvoiceRef {
	return dto.InvoiceRef{CompanyID: c.Params("companyId"), InvoiceID: c.Params("invoiceId")}
}

// Create godoc
// @Summary      Registrar pago
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        invoiceId  path  string  true  "ID de la factura"
// @Param        body  body  dto.CreatePaymentRequest  true  "Monto, fecha, método"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/invoices/{invoiceId}/payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := bind(c, &in); err != nil {
		return badBody(c)
	}
	in.CompanyID, in.InvoiceID = c.Params("companyId"), c.Params("invoiceId")
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pagos con el saldo de la factura
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        invoiceId  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.PaymentListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/invoices/{invoiceId}/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), invoiceRef(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar pago
// @Tags         payments
// @Security     Bearer
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        invoiceId  path  string  true  "ID de la factura"
// @Param        paymentId  path  string  true  "ID del pago"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/invoices/{invoiceId}/payments/{paymentId} [delete]
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	ref := invoiceRef(c)
	err := h.uc.Delete(c.UserContext(), dto.PaymentRef{
		CompanyID: ref.CompanyID,
		InvoiceID: ref.InvoiceID,
		PaymentID: c.Params("paymentId"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
