package record

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wanderkit/cms/internal/response"
	"github.com/wanderkit/cms/internal/schema"
)

type StatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func lookupModel(c *fiber.Ctx) *schema.Model {
	model, err := schema.Lookup(c.Params("model"))
	if err != nil {
		return nil
	}
	return model
}

func ListRecordsHandler(c *fiber.Ctx) error {
	model := lookupModel(c)
	if model == nil {
		return response.NotFound(c, "Model")
	}

	if model.Singleton {
		userID := c.Locals("user_id").(uint)
		rec, err := GetSingleton(model, userID)
		if err != nil {
			return response.InternalError(c, "Failed to load "+model.Title)
		}
		return response.Success(c, rec, model.Title+" retrieved successfully")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	params := ListParams{
		Page:   page,
		Limit:  limit,
		Search: c.Query("q", ""),
		Status: c.Query("status", ""),
	}

	records, total, err := ListRecords(model, params)
	if err != nil {
		return response.InternalError(c, "Failed to list "+model.Title)
	}

	meta := response.CalculateMeta(page, limit, total)
	return response.SuccessWithMeta(c, records, meta, model.Title+" retrieved successfully")
}

func GetRecordHandler(c *fiber.Ctx) error {
	model := lookupModel(c)
	if model == nil {
		return response.NotFound(c, "Model")
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid record ID", nil)
	}

	rec, err := GetRecord(model, uint(id))
	if err != nil {
		return response.NotFound(c, model.Title)
	}

	return response.Success(c, rec, model.Title+" retrieved successfully")
}

func CreateRecordHandler(c *fiber.Ctx) error {
	model := lookupModel(c)
	if model == nil {
		return response.NotFound(c, "Model")
	}
	userID := c.Locals("user_id").(uint)

	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	rec, err := CreateRecord(model, userID, data)
	if err != nil {
		return response.InternalError(c, "Failed to create "+model.Title)
	}

	return response.Created(c, rec, model.Title+" created successfully")
}

func UpdateRecordHandler(c *fiber.Ctx) error {
	model := lookupModel(c)
	if model == nil {
		return response.NotFound(c, "Model")
	}
	userID := c.Locals("user_id").(uint)

	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if model.Singleton {
		rec, err := UpdateSingleton(model, userID, data)
		if err != nil {
			return response.InternalError(c, "Failed to update "+model.Title)
		}
		return response.Success(c, rec, model.Title+" updated successfully")
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid record ID", nil)
	}

	rec, err := UpdateRecord(model, uint(id), userID, data)
	if err != nil {
		return response.NotFound(c, model.Title)
	}

	return response.Success(c, rec, model.Title+" updated successfully")
}

func PatchRecordHandler(c *fiber.Ctx) error {
	model := lookupModel(c)
	if model == nil {
		return response.NotFound(c, "Model")
	}
	userID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid record ID", nil)
	}

	var partial map[string]interface{}
	if err := c.BodyParser(&partial); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	rec, err := PatchRecord(model, uint(id), userID, partial)
	if err != nil {
		return response.NotFound(c, model.Title)
	}

	return response.Success(c, rec, model.Title+" updated successfully")
}

func DeleteRecordHandler(c *fiber.Ctx) error {
	model := lookupModel(c)
	if model == nil {
		return response.NotFound(c, "Model")
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid record ID", nil)
	}

	if err := DeleteRecord(model, uint(id)); err != nil {
		return response.NotFound(c, model.Title)
	}

	return response.NoContent(c)
}

func ChangeStatusHandler(c *fiber.Ctx) error {
	model := lookupModel(c)
	if model == nil {
		return response.NotFound(c, "Model")
	}
	userID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid record ID", nil)
	}

	var body StatusRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Status == "" {
		return response.ValidationError(c, map[string]string{
			"status": "status is required",
		})
	}

	rec, err := ChangeStatus(model, uint(id), userID, body.Status, body.Reason)
	if err != nil {
		return response.BadRequest(c, err.Error(), nil)
	}

	return response.Success(c, rec, "Status updated successfully")
}

func DuplicateRecordHandler(c *fiber.Ctx) error {
	model := lookupModel(c)
	if model == nil {
		return response.NotFound(c, "Model")
	}
	userID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid record ID", nil)
	}

	rec, err := DuplicateRecord(model, uint(id), userID)
	if err != nil {
		return response.NotFound(c, model.Title)
	}

	return response.Created(c, rec, model.Title+" duplicated successfully")
}
