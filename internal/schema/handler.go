package schema

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wanderkit/cms/internal/response"
)

func ListSchemasHandler(c *fiber.Ctx) error {
	return response.Success(c, All(), "Schemas retrieved successfully")
}

func GetSchemaHandler(c *fiber.Ctx) error {
	m, err := Lookup(c.Params("model"))
	if err != nil {
		return response.NotFound(c, "Schema")
	}
	return response.Success(c, m, "Schema retrieved successfully")
}

func GetSchemaReferenceHandler(c *fiber.Ctx) error {
	m, err := Lookup(c.Params("model"))
	if err != nil {
		return response.NotFound(c, "Schema")
	}
	return response.Success(c, Reference(m, c.BaseURL()), "API reference generated successfully")
}
