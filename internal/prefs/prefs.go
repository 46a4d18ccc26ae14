package prefs

import (
	"encoding/json"

	"github.com/wanderkit/cms/internal/database"
	"github.com/wanderkit/cms/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Get decodes a stored preference into out. Missing rows and garbage
// values both leave out at its zero/default state and return false; a
// broken preference must never break the screen that reads it.
func Get(userID uint, key string, out interface{}) bool {
	var pref models.Preference
	err := database.DB.Where("user_id = ? AND key = ?", userID, key).First(&pref).Error
	if err != nil {
		return false
	}

	if err := json.Unmarshal(pref.Value, out); err != nil {
		return false
	}
	return true
}

// Set upserts one preference value for a user.
func Set(userID uint, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	pref := models.Preference{
		UserID: userID,
		Key:    key,
		Value:  datatypes.JSON(raw),
	}

	return database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
}

// Delete removes one preference; absence is not an error.
func Delete(userID uint, key string) error {
	err := database.DB.Where("user_id = ? AND key = ?", userID, key).Delete(&models.Preference{}).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	return err
}
