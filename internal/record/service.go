package record

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wanderkit/cms/internal/database"
	"github.com/wanderkit/cms/internal/models"
	"github.com/wanderkit/cms/internal/schema"
	"gorm.io/datatypes"
)

type ListParams struct {
	Page   int
	Limit  int
	Search string
	Status string
}

func ListRecords(model *schema.Model, p ListParams) ([]models.Record, int64, error) {
	var records []models.Record
	var total int64

	query := database.DB.Model(&models.Record{}).Where("model = ?", model.Key)

	if p.Status != "" {
		query = query.Where("status = ?", p.Status)
	}
	if p.Search != "" {
		// Records keep their shape in a JSON column, so search has to go
		// through the serialized text.
		query = query.Where("CAST(data AS TEXT) LIKE ?", "%"+p.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (p.Page - 1) * p.Limit
	err := query.Preload("Creator").Preload("Updater").
		Offset(offset).
		Limit(p.Limit).
		Order("created_at DESC").
		Find(&records).Error

	return records, total, err
}

func GetRecord(model *schema.Model, id uint) (*models.Record, error) {
	var rec models.Record
	err := database.DB.Preload("Creator").Preload("Updater").
		Where("model = ?", model.Key).
		First(&rec, id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func CreateRecord(model *schema.Model, createdBy uint, data map[string]interface{}) (*models.Record, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	rec := models.Record{
		Model:     model.Key,
		Data:      datatypes.JSON(jsonData),
		Status:    model.InitialStatus(),
		CreatedBy: createdBy,
	}

	if err := database.DB.Create(&rec).Error; err != nil {
		return nil, err
	}

	return &rec, nil
}

func UpdateRecord(model *schema.Model, id, updatedBy uint, data map[string]interface{}) (*models.Record, error) {
	rec, err := GetRecord(model, id)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	rec.Data = datatypes.JSON(jsonData)
	rec.UpdatedBy = updatedBy

	if err := database.DB.Save(rec).Error; err != nil {
		return nil, err
	}

	return rec, nil
}

// PatchRecord merges the supplied top-level keys into the stored data
// instead of replacing the whole document.
func PatchRecord(model *schema.Model, id, updatedBy uint, partial map[string]interface{}) (*models.Record, error) {
	rec, err := GetRecord(model, id)
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{}
	if len(rec.Data) > 0 {
		if err := json.Unmarshal(rec.Data, &data); err != nil {
			return nil, fmt.Errorf("stored record data is corrupt: %v", err)
		}
	}
	for k, v := range partial {
		data[k] = v
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	rec.Data = datatypes.JSON(jsonData)
	rec.UpdatedBy = updatedBy

	if err := database.DB.Save(rec).Error; err != nil {
		return nil, err
	}

	return rec, nil
}

func DeleteRecord(model *schema.Model, id uint) error {
	result := database.DB.Where("model = ?", model.Key).Delete(&models.Record{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("record not found")
	}
	return nil
}

// ChangeStatus moves a record to a new status within its model's
// vocabulary. Rejections and cancellations carry a mandatory reason.
func ChangeStatus(model *schema.Model, id, updatedBy uint, status, reason string) (*models.Record, error) {
	valid := false
	for _, s := range model.Statuses() {
		if s == status {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("status %q is not valid for %s", status, model.Key)
	}

	if (status == models.StatusRejected || status == models.StatusCancelled) && reason == "" {
		return nil, fmt.Errorf("a reason is required to move a record to %s", status)
	}

	rec, err := GetRecord(model, id)
	if err != nil {
		return nil, err
	}

	rec.Status = status
	rec.StatusReason = reason
	rec.UpdatedBy = updatedBy

	switch status {
	case models.StatusPublished:
		rec.Published = true
		now := time.Now()
		rec.PublishedAt = &now
	case models.StatusRejected, models.StatusDraft:
		rec.Published = false
	}

	if err := database.DB.Save(rec).Error; err != nil {
		return nil, err
	}

	return rec, nil
}

// DuplicateRecord clones the data document into a fresh record that starts
// back at the initial status, never inheriting published state.
func DuplicateRecord(model *schema.Model, id, createdBy uint) (*models.Record, error) {
	src, err := GetRecord(model, id)
	if err != nil {
		return nil, err
	}

	copyData := make(datatypes.JSON, len(src.Data))
	copy(copyData, src.Data)

	dup := models.Record{
		Model:     model.Key,
		Data:      copyData,
		Status:    model.InitialStatus(),
		CreatedBy: createdBy,
	}

	if err := database.DB.Create(&dup).Error; err != nil {
		return nil, err
	}

	return &dup, nil
}

// GetSingleton returns the one record of a singleton model, creating an
// empty one on first access so the form always has something to edit.
func GetSingleton(model *schema.Model, userID uint) (*models.Record, error) {
	if !model.Singleton {
		return nil, fmt.Errorf("%s is not a singleton model", model.Key)
	}

	var rec models.Record
	err := database.DB.Where("model = ?", model.Key).First(&rec).Error
	if err == nil {
		return &rec, nil
	}

	return CreateRecord(model, userID, map[string]interface{}{})
}

func UpdateSingleton(model *schema.Model, userID uint, data map[string]interface{}) (*models.Record, error) {
	rec, err := GetSingleton(model, userID)
	if err != nil {
		return nil, err
	}
	return UpdateRecord(model, rec.ID, userID, data)
}
