package media

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/wanderkit/cms/internal/database"
	"github.com/wanderkit/cms/internal/models"
	"github.com/wanderkit/cms/internal/response"
	"github.com/wanderkit/cms/internal/utils"
)

type SignUploadRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Folder      string `json:"folder,omitempty"`
	Alt         string `json:"alt,omitempty"`
}

// SignUploadHandler hands the browser a URL it can upload the bytes to
// directly. The metadata row is written up front so the library listing
// shows the file as soon as the upload lands.
func SignUploadHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var body SignUploadRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.FileName == "" || body.ContentType == "" {
		return response.ValidationError(c, map[string]string{
			"file_name":    "file name is required",
			"content_type": "content type is required",
		})
	}

	maxSize := int64(10 * 1024 * 1024) // 10MB
	if strings.HasPrefix(body.ContentType, "video/") {
		maxSize = int64(100 * 1024 * 1024) // 100MB for videos
	}
	if body.Size > maxSize {
		return response.BadRequest(c, "File too large", map[string]interface{}{
			"max_size_mb":  maxSize / (1024 * 1024),
			"file_size_mb": body.Size / (1024 * 1024),
		})
	}

	key := utils.ObjectKey(body.FileName)

	var uploadURL string
	if utils.UseLocalStorage {
		uploadURL = "/media/upload-direct/" + key
	} else {
		var err error
		uploadURL, err = utils.PresignUpload(key, body.ContentType)
		if err != nil {
			return response.InternalError(c, "Failed to sign upload: "+err.Error())
		}
	}

	mediaFile := models.MediaFile{
		FileName:   body.FileName,
		Path:       key,
		Type:       body.ContentType,
		Size:       body.Size,
		Folder:     body.Folder,
		Alt:        body.Alt,
		UploadedBy: userID,
	}
	if err := database.DB.Create(&mediaFile).Error; err != nil {
		return response.InternalError(c, "Failed to save media metadata")
	}

	return response.Created(c, fiber.Map{
		"uploadUrl": uploadURL,
		"path":      key,
		"media":     mediaFile,
	}, "Upload signed successfully")
}

// SignReadHandler resolves a stored path into a fetchable URL.
func SignReadHandler(c *fiber.Ctx) error {
	path := c.Query("path", "")
	if path == "" {
		return response.BadRequest(c, "path query parameter is required", nil)
	}

	if utils.UseLocalStorage {
		return response.Success(c, fiber.Map{"url": "/uploads/" + strings.TrimPrefix(path, "/")}, "Read URL resolved")
	}

	url, err := utils.PresignRead(path)
	if err != nil {
		return response.InternalError(c, "Failed to sign read: "+err.Error())
	}

	return response.Success(c, fiber.Map{"url": url}, "Read URL resolved")
}

// DirectUploadHandler accepts the raw bytes in local-storage mode, where
// there is no object store to presign against.
func DirectUploadHandler(c *fiber.Ctx) error {
	key := c.Params("*")
	if key == "" {
		return response.BadRequest(c, "Upload path is required", nil)
	}

	if _, err := utils.WriteLocal(key, c.Body()); err != nil {
		return response.InternalError(c, "Failed to store file: "+err.Error())
	}

	return response.Success(c, fiber.Map{"path": key}, "File stored successfully")
}

func ListMediaHandler(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	mediaType := c.Query("type", "")
	folder := c.Query("folder", "")
	search := c.Query("q", "")

	offset := (page - 1) * limit

	var mediaFiles []models.MediaFile
	var total int64

	query := database.DB.Model(&models.MediaFile{})

	if mediaType != "" {
		query = query.Where("type LIKE ?", mediaType+"%")
	}
	if folder != "" {
		query = query.Where("folder = ?", folder)
	}
	if search != "" {
		query = query.Where("file_name LIKE ? OR alt LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	query.Count(&total)
	query.Preload("Uploader").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&mediaFiles)

	meta := response.CalculateMeta(page, limit, total)
	return response.SuccessWithMeta(c, mediaFiles, meta, "Media files retrieved successfully")
}

func GetMediaHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid media ID", nil)
	}

	var mediaFile models.MediaFile
	if err := database.DB.Preload("Uploader").First(&mediaFile, id).Error; err != nil {
		return response.NotFound(c, "Media")
	}

	return response.Success(c, mediaFile, "Media retrieved successfully")
}

func UpdateMediaHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid media ID", nil)
	}

	var mediaFile models.MediaFile
	if err := database.DB.First(&mediaFile, id).Error; err != nil {
		return response.NotFound(c, "Media")
	}

	var body struct {
		Alt    string `json:"alt"`
		Folder string `json:"folder"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	mediaFile.Alt = body.Alt
	mediaFile.Folder = body.Folder

	if err := database.DB.Save(&mediaFile).Error; err != nil {
		return response.InternalError(c, "Failed to update media")
	}

	return response.Success(c, mediaFile, "Media updated successfully")
}

func DeleteMediaHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid media ID", nil)
	}

	var mediaFile models.MediaFile
	if err := database.DB.First(&mediaFile, id).Error; err != nil {
		return response.NotFound(c, "Media")
	}

	var removeErr error
	if utils.UseLocalStorage {
		removeErr = utils.DeleteFromLocal(mediaFile.Path)
	} else {
		removeErr = utils.DeleteFromS3(mediaFile.Path)
	}
	if removeErr != nil {
		c.Append("X-Warning", "File deleted from database but may still exist in storage")
	}

	if err := database.DB.Delete(&mediaFile).Error; err != nil {
		return response.InternalError(c, "Failed to delete media")
	}

	return response.NoContent(c)
}
