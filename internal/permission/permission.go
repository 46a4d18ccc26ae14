package permission

import (
	"encoding/json"
	"strings"

	"github.com/wanderkit/cms/internal/schema"
)

// AdminRole bypasses the permission map entirely.
const AdminRole = "admin"

const (
	ActionCreate  = "create"
	ActionRead    = "read"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionPublish = "publish"
)

var Actions = []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionPublish}

// Models managed outside the schema registry that still appear in the
// permission map.
var extraModels = []string{"users", "roles", "images"}

type ActionSet struct {
	Create  bool `json:"create"`
	Read    bool `json:"read"`
	Update  bool `json:"update"`
	Delete  bool `json:"delete"`
	Publish bool `json:"publish"`
}

func (a ActionSet) Has(action string) bool {
	switch action {
	case ActionCreate:
		return a.Create
	case ActionRead:
		return a.Read
	case ActionUpdate:
		return a.Update
	case ActionDelete:
		return a.Delete
	case ActionPublish:
		return a.Publish
	}
	return false
}

// Map holds per-model action grants. Absence of a model key means no
// access; checks must never treat a missing entry as allowed.
type Map map[string]ActionSet

// Normalize fills in an all-false entry for every model the app knows
// about, so downstream consumers can iterate the map without guessing
// which keys exist. Unknown keys from the server payload are kept.
func Normalize(m Map) Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, s := range schema.All() {
		if _, ok := out[s.Key]; !ok {
			out[s.Key] = ActionSet{}
		}
	}
	for _, k := range extraModels {
		if _, ok := out[k]; !ok {
			out[k] = ActionSet{}
		}
	}
	return out
}

// Parse decodes a stored permission document. Corrupt JSON yields an empty
// (deny-everything) map rather than an error; the gate's default-deny rule
// makes that the safe reading.
func Parse(raw []byte) Map {
	var m Map
	if len(raw) == 0 || json.Unmarshal(raw, &m) != nil {
		return Map{}
	}
	return m
}

// Gate answers renderability questions for one resolved role. Loading is
// true while the role fetch is still in flight; no decision is made until
// it settles.
type Gate struct {
	Role    string
	Perms   Map
	Loading bool
}

// Can reports whether the role may perform action on model. Admin always
// may; otherwise a missing model or action defaults to deny.
func (g Gate) Can(model, action string) bool {
	if g.Loading {
		return false
	}
	if g.Role == AdminRole {
		return true
	}
	return g.Perms[model].Has(action)
}

// Decision is the tristate used while the permission source loads: render
// nothing rather than flash wrongly-permitted content.
type Decision int

const (
	DecisionLoading Decision = iota
	DecisionAllowed
	DecisionDenied
)

func (g Gate) Decide(model, action string) Decision {
	if g.Loading {
		return DecisionLoading
	}
	if g.Can(model, action) {
		return DecisionAllowed
	}
	return DecisionDenied
}

// FromRoute infers the (model, action) pair a dashboard route needs:
//
//	/content/:model          -> read
//	/content/:model/create   -> create
//	/content/:model/:id      -> update
//	/single/:model           -> read
//
// Routes outside these patterns (dashboard, not-found) skip the check; ok
// is false for them.
func FromRoute(path string) (model, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) == 2 && parts[0] == "content":
		return parts[1], ActionRead, true
	case len(parts) == 3 && parts[0] == "content" && parts[2] == "create":
		return parts[1], ActionCreate, true
	case len(parts) == 3 && parts[0] == "content":
		return parts[1], ActionUpdate, true
	case len(parts) == 2 && parts[0] == "single":
		return parts[1], ActionRead, true
	}
	return "", "", false
}
