package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/wanderkit/cms/internal/database"
	"github.com/wanderkit/cms/internal/models"
	"github.com/wanderkit/cms/internal/permission"
	"github.com/wanderkit/cms/internal/schema"
	"github.com/wanderkit/cms/internal/server"
	"github.com/wanderkit/cms/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err, "Failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Record{},
		&models.Edge{},
		&models.MediaFile{},
		&models.Preference{},
		&models.ResetToken{},
		&models.RefreshToken{},
	)
	assert.NoError(t, err, "Failed to migrate test database")

	return db
}

func SetupTestApp(t *testing.T) *fiber.App {
	db := TestDB(t)
	database.DB = db

	CreateTestRoles(t, db)

	err := utils.InitLocalStorage()
	assert.NoError(t, err, "Failed to initialize storage")
	utils.SetStorageMode(true)

	app := server.New(db)
	return app
}

func permJSON(t *testing.T, m permission.Map) datatypes.JSON {
	raw, err := json.Marshal(permission.Normalize(m))
	assert.NoError(t, err)
	return datatypes.JSON(raw)
}

func CreateTestRoles(t *testing.T, db *gorm.DB) {
	adminPerms := permission.Map{}
	editorPerms := permission.Map{}
	viewerPerms := permission.Map{}

	for _, m := range schema.All() {
		adminPerms[m.Key] = permission.ActionSet{Create: true, Read: true, Update: true, Delete: true, Publish: true}
		editorPerms[m.Key] = permission.ActionSet{Create: true, Read: true, Update: true}
		viewerPerms[m.Key] = permission.ActionSet{Read: true}
	}
	adminPerms["users"] = permission.ActionSet{Create: true, Read: true, Update: true, Delete: true, Publish: true}
	adminPerms["roles"] = adminPerms["users"]
	adminPerms["images"] = adminPerms["users"]
	editorPerms["images"] = permission.ActionSet{Create: true, Read: true, Update: true}
	viewerPerms["images"] = permission.ActionSet{Read: true}

	db.Create(&models.Role{
		Name:        "admin",
		Description: "Administrator with full access",
		Permissions: permJSON(t, adminPerms),
	})
	db.Create(&models.Role{
		Name:        "editor",
		Description: "Editor - can create and edit content",
		Permissions: permJSON(t, editorPerms),
	})
	db.Create(&models.Role{
		Name:        "viewer",
		Description: "Viewer - read-only access",
		Permissions: permJSON(t, viewerPerms),
	})
}

func CreateTestUser(t *testing.T, db *gorm.DB, email, password, roleName string) *models.User {
	hashedPassword, _ := utils.HashPassword(password)

	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		t.Fatalf("Failed to find role '%s': %v. Make sure CreateTestRoles was called.", roleName, err)
	}

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: hashedPassword,
		Status:   "active",
		RoleID:   role.ID,
	}

	err := db.Create(user).Error
	assert.NoError(t, err, "Failed to create test user")

	db.Preload("Role").First(user, user.ID)

	if user.Role == nil {
		t.Fatal("Role not loaded for user")
	}

	return user
}

func GetAuthToken(t *testing.T, userID uint, roleName string) string {
	token, err := utils.GenerateJWT(userID, roleName)
	assert.NoError(t, err, "Failed to generate test token")
	return token
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode

	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.NewDecoder(resp.Body).Decode(v)
	if err != nil && err != io.EOF {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data"`
	Error   *ErrorDetail `json:"error"`
	Meta    *Meta        `json:"meta"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func AssertSuccess(t *testing.T, resp *httptest.ResponseRecorder) {
	var result Envelope
	ParseResponse(t, resp, &result)
	assert.True(t, result.Success, "Expected success response")
	assert.Empty(t, result.Error, "Expected no error")
}

func AssertError(t *testing.T, resp *httptest.ResponseRecorder, expectedCode string) {
	var result Envelope
	ParseResponse(t, resp, &result)
	assert.False(t, result.Success, "Expected error response")
	assert.NotNil(t, result.Error, "Expected error object")
	assert.Equal(t, expectedCode, result.Error.Code, "Error code mismatch")
}
