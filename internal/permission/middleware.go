package permission

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wanderkit/cms/internal/database"
	"github.com/wanderkit/cms/internal/models"
	"github.com/wanderkit/cms/internal/response"
)

// GateFor loads the caller's role and builds a settled Gate for it.
func GateFor(userID uint) (Gate, error) {
	var user models.User
	if err := database.DB.Preload("Role").First(&user, userID).Error; err != nil {
		return Gate{}, err
	}
	if user.Role == nil {
		return Gate{}, nil
	}
	return Gate{
		Role:  user.Role.Name,
		Perms: Normalize(Parse(user.Role.Permissions)),
	}, nil
}

// Protected gates a route on one (model, action) pair. Admin passes, every
// other role needs an explicit grant.
func Protected(model, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(uint)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		gate, err := GateFor(userID)
		if err != nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if gate.Role == "" {
			return response.Forbidden(c, "User has no role assigned")
		}

		if !gate.Can(model, action) {
			return response.Forbidden(c, "You don't have permission to perform this action")
		}

		return c.Next()
	}
}

// ProtectedModelParam is Protected with the model taken from the :model
// route parameter, for the generic record routes.
func ProtectedModelParam(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return Protected(c.Params("model"), action)(c)
	}
}

// HasPermission is the imperative variant used by row-level action menus.
func HasPermission(userID uint, model, action string) bool {
	gate, err := GateFor(userID)
	if err != nil {
		return false
	}
	return gate.Can(model, action)
}
