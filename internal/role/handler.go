package role

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wanderkit/cms/internal/database"
	"github.com/wanderkit/cms/internal/models"
	"github.com/wanderkit/cms/internal/permission"
	"github.com/wanderkit/cms/internal/response"
)

type RoleRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Permissions permission.Map `json:"permissions"`
}

func CreateRoleHandler(c *fiber.Ctx) error {
	var body RoleRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Name == "" {
		return response.ValidationError(c, map[string]string{
			"name": "role name is required",
		})
	}

	var existing models.Role
	if err := database.DB.Where("name = ?", body.Name).First(&existing).Error; err == nil {
		return response.Conflict(c, "Role with this name already exists")
	}

	role, err := CreateRole(database.DB, body.Name, body.Description, body.Permissions)
	if err != nil {
		return response.InternalError(c, "Failed to create role")
	}

	return response.Created(c, role, "Role created successfully")
}

func ListRolesHandler(c *fiber.Ctx) error {
	roles, err := ListRoles()
	if err != nil {
		return response.InternalError(c, "Failed to fetch roles")
	}

	return response.Success(c, roles, "Roles retrieved successfully")
}

// GetRoleHandler serves the permission map the dashboard's gate runs on.
// The map is normalized so every known model appears with explicit flags.
func GetRoleHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid role ID", nil)
	}

	var role models.Role
	if err := database.DB.First(&role, id).Error; err != nil {
		return response.NotFound(c, "Role")
	}

	perms := permission.Normalize(permission.Parse(role.Permissions))

	return response.Success(c, fiber.Map{
		"id":          role.ID,
		"name":        role.Name,
		"description": role.Description,
		"permissions": perms,
	}, "Role retrieved successfully")
}

func UpdateRoleHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid role ID", nil)
	}

	var body RoleRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	var role models.Role
	if err := database.DB.First(&role, id).Error; err != nil {
		return response.NotFound(c, "Role")
	}

	if body.Name != "" {
		role.Name = body.Name
	}
	role.Description = body.Description
	if err := database.DB.Save(&role).Error; err != nil {
		return response.InternalError(c, "Failed to update role")
	}

	if body.Permissions != nil {
		if err := UpdatePermissions(database.DB, role.ID, body.Permissions); err != nil {
			return response.InternalError(c, "Failed to update permissions")
		}
	}

	database.DB.First(&role, role.ID)
	return response.Success(c, role, "Role updated successfully")
}

func DeleteRoleHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid role ID", nil)
	}

	var role models.Role
	if err := database.DB.First(&role, id).Error; err != nil {
		return response.NotFound(c, "Role")
	}

	var userCount int64
	if err := database.DB.Model(&models.User{}).Where("role_id = ?", id).Count(&userCount).Error; err != nil {
		return response.InternalError(c, "Failed to check role usage")
	}
	if userCount > 0 {
		return response.Conflict(c, "Cannot delete role that is assigned to users")
	}

	if err := database.DB.Delete(&role).Error; err != nil {
		return response.InternalError(c, "Failed to delete role")
	}

	return response.NoContent(c)
}

func AssignRoleToUserHandler(c *fiber.Ctx) error {
	var body struct {
		UserID uint `json:"user_id"`
		RoleID uint `json:"role_id"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.UserID == 0 || body.RoleID == 0 {
		return response.ValidationError(c, map[string]string{
			"user_id": "user_id is required",
			"role_id": "role_id is required",
		})
	}

	var role models.Role
	if err := database.DB.First(&role, body.RoleID).Error; err != nil {
		return response.NotFound(c, "Role")
	}

	var user models.User
	if err := database.DB.First(&user, body.UserID).Error; err != nil {
		return response.NotFound(c, "User")
	}

	user.RoleID = body.RoleID
	if err := database.DB.Save(&user).Error; err != nil {
		return response.InternalError(c, "Failed to assign role")
	}

	database.DB.Preload("Role").First(&user, user.ID)

	return response.Success(c, user, "Role assigned successfully")
}
