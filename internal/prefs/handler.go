package prefs

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wanderkit/cms/internal/response"
)

func GetPreferenceHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	key := c.Params("key")

	var value interface{}
	if !Get(userID, key, &value) {
		return response.Success(c, nil, "No preference stored")
	}

	return response.Success(c, value, "Preference retrieved successfully")
}

func SetPreferenceHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	key := c.Params("key")

	var value interface{}
	if err := c.BodyParser(&value); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if err := Set(userID, key, value); err != nil {
		return response.InternalError(c, "Failed to save preference")
	}

	return response.Success(c, value, "Preference saved successfully")
}

func DeletePreferenceHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	key := c.Params("key")

	if err := Delete(userID, key); err != nil {
		return response.InternalError(c, "Failed to delete preference")
	}

	return response.NoContent(c)
}
