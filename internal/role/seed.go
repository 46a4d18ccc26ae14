package role

import (
	"github.com/wanderkit/cms/internal/database"
	"github.com/wanderkit/cms/internal/models"
	"github.com/wanderkit/cms/internal/permission"
	"github.com/wanderkit/cms/internal/schema"
	"gorm.io/gorm"
)

func allActions() permission.ActionSet {
	return permission.ActionSet{Create: true, Read: true, Update: true, Delete: true, Publish: true}
}

func editorActions() permission.ActionSet {
	return permission.ActionSet{Create: true, Read: true, Update: true}
}

func readOnly() permission.ActionSet {
	return permission.ActionSet{Read: true}
}

// SeedDefaultRoles creates the three built-in roles when they are missing.
// The admin role gets a full map anyway so role editors have a complete
// starting point to copy from, even though the gate bypasses it.
func SeedDefaultRoles() error {
	editorPerms := permission.Map{}
	viewerPerms := permission.Map{}
	adminPerms := permission.Map{}

	for _, m := range schema.All() {
		editorPerms[m.Key] = editorActions()
		viewerPerms[m.Key] = readOnly()
		adminPerms[m.Key] = allActions()
	}
	for _, extra := range []string{"users", "roles", "images"} {
		viewerPerms[extra] = readOnly()
		adminPerms[extra] = allActions()
	}
	editorPerms["images"] = editorActions()

	seed := func(name, description string, perms permission.Map) {
		var existing models.Role
		if err := database.DB.Where("name = ?", name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			_, _ = CreateRole(database.DB, name, description, perms)
		}
	}

	seed("admin", "Full access to all resources", adminPerms)
	seed("editor", "Can create and edit content and media", editorPerms)
	seed("viewer", "Read-only access", viewerPerms)

	return nil
}
