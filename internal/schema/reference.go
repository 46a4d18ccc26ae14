package schema

import "fmt"

type APIEndpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Auth        bool   `json:"auth_required"`
	Permission  string `json:"permission,omitempty"`
}

type APIReference struct {
	Model     string                   `json:"model"`
	Title     string                   `json:"title"`
	BaseURL   string                   `json:"base_url"`
	Singleton bool                     `json:"singleton"`
	Statuses  []string                 `json:"statuses"`
	Endpoints []APIEndpoint            `json:"endpoints"`
	Fields    []map[string]interface{} `json:"fields"`
}

// Reference documents the REST surface of one model straight from its
// schema, for the dashboard's built-in API explorer.
func Reference(m *Model, baseURL string) APIReference {
	ref := APIReference{
		Model:     m.Key,
		Title:     m.Title,
		BaseURL:   baseURL,
		Singleton: m.Singleton,
		Statuses:  m.Statuses(),
	}

	leaves, _ := Flatten(m.Fields)
	for _, f := range leaves {
		doc := map[string]interface{}{
			"key":      f.Key,
			"type":     f.Type,
			"label":    f.DisplayLabel(),
			"required": f.Required,
		}
		if f.Ref != "" {
			doc["ref"] = f.Ref
		}
		if f.MinLength != nil {
			doc["min_length"] = *f.MinLength
		}
		if f.MaxLength != nil {
			doc["max_length"] = *f.MaxLength
		}
		if f.Min != nil {
			doc["min"] = *f.Min
		}
		if f.Max != nil {
			doc["max"] = *f.Max
		}
		if len(f.Enum) > 0 {
			doc["enum"] = f.Enum
		}
		ref.Fields = append(ref.Fields, doc)
	}

	if m.Singleton {
		ref.Endpoints = []APIEndpoint{
			{Method: "GET", Path: "/" + m.Key, Description: fmt.Sprintf("Fetch the %s singleton", m.Title), Auth: true, Permission: m.Key + ":read"},
			{Method: "PUT", Path: "/" + m.Key, Description: fmt.Sprintf("Replace the %s singleton", m.Title), Auth: true, Permission: m.Key + ":update"},
		}
		return ref
	}

	ref.Endpoints = []APIEndpoint{
		{Method: "GET", Path: "/" + m.Key, Description: fmt.Sprintf("List %s", m.Title), Auth: true, Permission: m.Key + ":read"},
		{Method: "POST", Path: "/" + m.Key, Description: fmt.Sprintf("Create a %s record", m.Title), Auth: true, Permission: m.Key + ":create"},
		{Method: "GET", Path: "/" + m.Key + "/:id", Description: "Fetch one record", Auth: true, Permission: m.Key + ":read"},
		{Method: "PATCH", Path: "/" + m.Key + "/:id", Description: "Update one record", Auth: true, Permission: m.Key + ":update"},
		{Method: "DELETE", Path: "/" + m.Key + "/:id", Description: "Delete one record", Auth: true, Permission: m.Key + ":delete"},
		{Method: "PATCH", Path: "/" + m.Key + "/:id/status", Description: "Status-only transition", Auth: true, Permission: m.Key + ":publish"},
		{Method: "POST", Path: "/" + m.Key + "/:id/duplicate", Description: "Clone a record server-side", Auth: true, Permission: m.Key + ":create"},
	}
	return ref
}
