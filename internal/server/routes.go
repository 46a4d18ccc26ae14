package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/wanderkit/cms/internal/auth"
	"github.com/wanderkit/cms/internal/media"
	"github.com/wanderkit/cms/internal/permission"
	"github.com/wanderkit/cms/internal/prefs"
	"github.com/wanderkit/cms/internal/record"
	"github.com/wanderkit/cms/internal/relation"
	"github.com/wanderkit/cms/internal/role"
	"github.com/wanderkit/cms/internal/schema"
	"github.com/wanderkit/cms/internal/user"
)

func SetupRoutes(app *fiber.App) {
	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Wanderkit API is running",
		})
	})

	// ==========================================
	// AUTH ROUTES (No authentication required)
	// ==========================================
	authGroup := app.Group("/auth")
	app.Use("/auth", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
	}))
	authGroup.Post("/register", auth.RegisterHandler)
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.LoginHandler)
	authGroup.Get("/google/login", auth.GoogleLogin)
	authGroup.Get("/google/callback", auth.GoogleCallback)
	authGroup.Post("/forgot-password", auth.ForgotPasswordHandler)
	authGroup.Post("/reset-password", auth.ResetPasswordHandler)
	authGroup.Post("/refresh", limiter.New(limiter.Config{
		Max:        3,
		Expiration: 5 * time.Minute,
	}), auth.RefreshHandler)
	authGroup.Get("/me", auth.JWTProtected(), auth.MeHandler)
	authGroup.Post("/logout", auth.JWTProtected(), auth.LogoutHandler)

	// ==========================================
	// USER MANAGEMENT (Admin only)
	// ==========================================
	userGroup := app.Group("/users")
	userGroup.Use(auth.JWTProtected())
	userGroup.Get("/", permission.Protected("users", permission.ActionRead), user.ListUsersHandler)
	userGroup.Get("/:id", permission.Protected("users", permission.ActionRead), user.GetUserHandler)
	userGroup.Post("/", auth.RoleProtected("admin"), user.CreateUserHandler)
	userGroup.Put("/:id", auth.RoleProtected("admin"), user.UpdateUserHandler)
	userGroup.Delete("/:id", auth.RoleProtected("admin"), user.DeleteUserHandler)

	// ==========================================
	// ROLE MANAGEMENT
	// ==========================================
	roleGroup := app.Group("/roles")
	roleGroup.Use(auth.JWTProtected())
	roleGroup.Get("/", permission.Protected("roles", permission.ActionRead), role.ListRolesHandler)
	roleGroup.Get("/:id", role.GetRoleHandler)
	roleGroup.Post("/", auth.RoleProtected("admin"), role.CreateRoleHandler)
	roleGroup.Put("/:id", auth.RoleProtected("admin"), role.UpdateRoleHandler)
	roleGroup.Delete("/:id", auth.RoleProtected("admin"), role.DeleteRoleHandler)
	roleGroup.Post("/assign", auth.RoleProtected("admin"), role.AssignRoleToUserHandler)

	// ==========================================
	// SCHEMAS
	// ==========================================
	schemaGroup := app.Group("/schemas")
	schemaGroup.Use(auth.JWTProtected())
	schemaGroup.Get("/", schema.ListSchemasHandler)
	schemaGroup.Get("/:model", schema.GetSchemaHandler)
	schemaGroup.Get("/:model/reference", schema.GetSchemaReferenceHandler)

	// ==========================================
	// RELATIONS
	// ==========================================
	relationGroup := app.Group("/relations")
	relationGroup.Use(auth.JWTProtected())
	relationGroup.Post("/add", relation.AddEdgeHandler)
	relationGroup.Post("/remove", relation.RemoveEdgeHandler)
	relationGroup.Get("/:kind/:node_id", relation.ListEdgesHandler)

	// ==========================================
	// MEDIA LIBRARY
	// ==========================================
	mediaGroup := app.Group("/media")
	mediaGroup.Use(auth.JWTProtected())
	mediaGroup.Post("/sign-upload",
		permission.Protected("images", permission.ActionCreate),
		media.SignUploadHandler)
	mediaGroup.Get("/sign-read",
		permission.Protected("images", permission.ActionRead),
		media.SignReadHandler)
	mediaGroup.Put("/upload-direct/*",
		permission.Protected("images", permission.ActionCreate),
		media.DirectUploadHandler)
	mediaGroup.Get("/",
		permission.Protected("images", permission.ActionRead),
		media.ListMediaHandler)
	mediaGroup.Get("/:id",
		permission.Protected("images", permission.ActionRead),
		media.GetMediaHandler)
	mediaGroup.Put("/:id",
		permission.Protected("images", permission.ActionUpdate),
		media.UpdateMediaHandler)
	mediaGroup.Delete("/:id",
		permission.Protected("images", permission.ActionDelete),
		media.DeleteMediaHandler)

	// ==========================================
	// PREFERENCES
	// ==========================================
	prefsGroup := app.Group("/preferences")
	prefsGroup.Use(auth.JWTProtected())
	prefsGroup.Get("/:key", prefs.GetPreferenceHandler)
	prefsGroup.Put("/:key", prefs.SetPreferenceHandler)
	prefsGroup.Delete("/:key", prefs.DeletePreferenceHandler)

	// ==========================================
	// RECORDS (generic, schema-driven)
	// ==========================================
	// Registered last: /:model would otherwise swallow the named groups
	// above.
	recordGroup := app.Group("/:model")
	recordGroup.Use(auth.JWTProtected())
	recordGroup.Get("/",
		permission.ProtectedModelParam(permission.ActionRead),
		record.ListRecordsHandler)
	recordGroup.Post("/",
		permission.ProtectedModelParam(permission.ActionCreate),
		record.CreateRecordHandler)
	recordGroup.Get("/:id",
		permission.ProtectedModelParam(permission.ActionRead),
		record.GetRecordHandler)
	recordGroup.Put("/:id",
		permission.ProtectedModelParam(permission.ActionUpdate),
		record.UpdateRecordHandler)
	recordGroup.Patch("/:id",
		permission.ProtectedModelParam(permission.ActionUpdate),
		record.PatchRecordHandler)
	recordGroup.Delete("/:id",
		permission.ProtectedModelParam(permission.ActionDelete),
		record.DeleteRecordHandler)
	recordGroup.Patch("/:id/status",
		permission.ProtectedModelParam(permission.ActionPublish),
		record.ChangeStatusHandler)
	recordGroup.Post("/:id/duplicate",
		permission.ProtectedModelParam(permission.ActionCreate),
		record.DuplicateRecordHandler)

	// Singleton models are updated without an id.
	recordGroup.Put("/",
		permission.ProtectedModelParam(permission.ActionUpdate),
		record.UpdateRecordHandler)
}
