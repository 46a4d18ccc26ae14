package role

import (
	"encoding/json"

	"github.com/wanderkit/cms/internal/database"
	"github.com/wanderkit/cms/internal/models"
	"github.com/wanderkit/cms/internal/permission"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func CreateRole(db *gorm.DB, name, description string, perms permission.Map) (*models.Role, error) {
	permsJSON, err := json.Marshal(permission.Normalize(perms))
	if err != nil {
		return nil, err
	}

	role := models.Role{
		Name:        name,
		Description: description,
		Permissions: datatypes.JSON(permsJSON),
	}
	if err := db.Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func UpdatePermissions(db *gorm.DB, roleID uint, perms permission.Map) error {
	permsJSON, err := json.Marshal(permission.Normalize(perms))
	if err != nil {
		return err
	}

	return db.Model(&models.Role{}).
		Where("id = ?", roleID).
		Update("permissions", datatypes.JSON(permsJSON)).Error
}

func ListRoles() ([]models.Role, error) {
	var roles []models.Role
	if err := database.DB.Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
