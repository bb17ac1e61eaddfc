package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// bind carga el cuerpo JSON si viene; un cuerpo vacío deja out intacto.
func bind(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

// pageFromQuery lee limit/offset de la query con los valores por defecto de dto.PageRequest.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	page.DefaultPage()
	return page
}

func listRequest(c *fiber.Ctx) dto.ListRequest {
	return dto.ListRequest{CompanyID: c.Params("companyId"), Page: pageFromQuery(c)}
}

func resourceRef(c *fiber.Ctx) dto.ResourceRef {
	return dto.ResourceRef{CompanyID: c.Params("companyId"), ID: c.Params("id")}
}
