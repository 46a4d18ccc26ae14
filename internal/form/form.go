package form

import (
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/wanderkit/cms/internal/api"
	"github.com/wanderkit/cms/internal/notify"
	"github.com/wanderkit/cms/internal/pathutil"
	"github.com/wanderkit/cms/internal/relation"
	"github.com/wanderkit/cms/internal/schema"
)

// Form actions. Which set applies depends on the model's status
// vocabulary: content models use save/publish/reject, booking models use
// save/confirm/cancel/pending.
const (
	ActionSave    = "save"
	ActionPublish = "publish"
	ActionReject  = "reject"
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
	ActionPending = "pending"
)

// Form drives one record edit session: it owns the working value tree,
// runs validation, assembles the save payload and applies pending
// relation diffs after the main save lands.
type Form struct {
	Model    *schema.Model
	Record   map[string]interface{}
	RecordID string
	Method   string
	Endpoint string

	client    api.Client
	notifier  notify.Notifier
	diffs     *relation.DiffTracker
	sanitizer *bluemonday.Policy

	saved     bool
	navigated bool
}

func New(model *schema.Model, record map[string]interface{}, method, endpoint string, client api.Client, notifier notify.Notifier) *Form {
	if record == nil {
		record = map[string]interface{}{}
	}
	return &Form{
		Model:     model,
		Record:    pathutil.Clone(record),
		Method:    method,
		Endpoint:  endpoint,
		client:    client,
		notifier:  notifier,
		diffs:     relation.NewDiffTracker(),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Diffs exposes the tracker so relation pickers can seed and edit
// unidirectional selections for this record.
func (f *Form) Diffs() *relation.DiffTracker { return f.diffs }

// SetValue applies one field edit and keeps the previous tree intact.
func (f *Form) SetValue(key string, value interface{}) {
	f.Record = pathutil.Set(f.Record, key, value)
}

// Saved reports whether the main save has been committed.
func (f *Form) Saved() bool { return f.saved }

// Navigated reports whether the session is done and the shell should
// leave the form. Singletons never navigate away.
func (f *Form) Navigated() bool { return f.navigated }

// statusFor maps a pressed action onto the target status and its
// companion payload fields.
func (f *Form) statusFor(action, reason string) (string, map[string]interface{}, error) {
	if f.Model.Booking {
		switch action {
		case ActionSave:
			return "", nil, nil
		case ActionConfirm:
			return "confirmed", nil, nil
		case ActionPending:
			return "pending", nil, nil
		case ActionCancel:
			if strings.TrimSpace(reason) == "" {
				return "", nil, fmt.Errorf("a cancellation reason is required")
			}
			return "cancelled", map[string]interface{}{"cancellationReason": reason}, nil
		}
		return "", nil, fmt.Errorf("action %q not available for bookings", action)
	}

	switch action {
	case ActionSave:
		return "", nil, nil
	case ActionPublish:
		return "published", map[string]interface{}{"published": true}, nil
	case ActionReject:
		if strings.TrimSpace(reason) == "" {
			return "", nil, fmt.Errorf("a rejection reason is required")
		}
		return "rejected", map[string]interface{}{"published": false, "rejectionReason": reason}, nil
	}
	return "", nil, fmt.Errorf("action %q not available for this model", action)
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return true
	}
}

// validate runs required-truthiness checks over the flattened schema plus
// the two literal-name checks and the hardcoded conditional path rules.
// Every violation is returned; the caller reports each one.
func (f *Form) validate() []string {
	var violations []string

	flat, err := schema.Flatten(f.Model.Fields)
	if err != nil {
		return []string{err.Error()}
	}

	for _, field := range flat {
		value := pathutil.Get(f.Record, field.Key, nil)

		if field.Required && !truthy(value) {
			violations = append(violations, fmt.Sprintf("%s is required", field.DisplayLabel()))
			continue
		}

		leaf := field.Key
		if i := strings.LastIndex(leaf, "."); i >= 0 {
			leaf = leaf[i+1:]
		}

		if leaf == "email" {
			if s, ok := value.(string); ok && s != "" && !looksLikeEmail(s) {
				violations = append(violations, fmt.Sprintf("%s must be a valid email address", field.DisplayLabel()))
			}
		}
		if leaf == "contact" && field.MinLength != nil {
			if s, ok := value.(string); ok && s != "" && len(s) < *field.MinLength {
				violations = append(violations, fmt.Sprintf("%s must be at least %d characters", field.DisplayLabel(), *field.MinLength))
			}
		}
	}

	violations = append(violations, f.conditionalRules()...)
	return violations
}

// conditionalRules holds the path-based cross-field checks that the
// schema cannot express. Hardcoded per known path.
func (f *Form) conditionalRules() []string {
	var violations []string

	enabled, _ := pathutil.Get(f.Record, "paymentConfig.partial.enabled", false).(bool)
	if enabled {
		price, _ := pathutil.Get(f.Record, "paymentConfig.partial.price", float64(0)).(float64)
		if price <= 0 {
			violations = append(violations, "Partial payment price must be greater than zero when partial payment is enabled")
		}
	}

	return violations
}

func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// sanitize strips unsafe markup from every richtext value before it goes
// over the wire.
func (f *Form) sanitize(payload map[string]interface{}) {
	flat, err := schema.Flatten(f.Model.Fields)
	if err != nil {
		return
	}
	for _, field := range flat {
		if field.Type != schema.TypeRichText {
			continue
		}
		if s, ok := pathutil.Get(payload, field.Key, "").(string); ok && s != "" {
			cleaned := f.sanitizer.Sanitize(s)
			wrote := pathutil.Set(payload, field.Key, cleaned)
			for k, v := range wrote {
				payload[k] = v
			}
		}
	}
}

// Submit runs the whole save pipeline for one pressed action. Validation
// failures block before any network call. Relation diff failures after a
// committed save are reported but never roll it back.
func (f *Form) Submit(ctx context.Context, action, reason string) error {
	status, extra, err := f.statusFor(action, reason)
	if err != nil {
		f.notifier.Notify(notify.Error, err.Error())
		return err
	}

	violations := f.validate()
	if len(violations) > 0 {
		for _, v := range violations {
			f.notifier.Notify(notify.Error, v)
		}
		return fmt.Errorf("validation failed: %d field(s)", len(violations))
	}

	payload := pathutil.Unflatten(pathutil.Clone(f.Record))
	f.sanitize(payload)
	if status != "" {
		payload["status"] = status
	}
	for k, v := range extra {
		payload[k] = v
	}

	var saved interface{}
	if err := f.client.Do(ctx, f.Method, f.Endpoint, nil, payload, &saved); err != nil {
		f.notifier.Notify(notify.Error, fmt.Sprintf("Failed to save %s: %v", f.Model.Title, err))
		return err
	}
	f.saved = true

	recordID := f.RecordID
	if id := savedID(saved); id != "" {
		recordID = id
		f.RecordID = id
	}

	f.applyRelationDiffs(ctx, recordID)

	if !f.Model.Singleton {
		f.navigated = true
	}
	f.notifier.Notify(notify.Success, fmt.Sprintf("%s saved", f.Model.Title))
	return nil
}

// applyRelationDiffs flushes pending unidirectional edges one call at a
// time. A failed edge is reported and skipped; the remaining edges still
// go out.
func (f *Form) applyRelationDiffs(ctx context.Context, recordID string) {
	if recordID == "" {
		return
	}
	pending := f.diffs.Pending()
	if len(pending) == 0 {
		return
	}

	for _, field := range f.Model.Fields {
		if !field.IsUnidirectional() {
			continue
		}
		if _, ok := pending[field.Key]; !ok {
			continue
		}
		errs := f.diffs.Apply(ctx, f.client, field.Key, field.Key, recordID, f.Model.Key, field.Ref)
		for _, err := range errs {
			f.notifier.Notify(notify.Warning, fmt.Sprintf("Failed to update %s: %v", field.DisplayLabel(), err))
		}
		if len(errs) == 0 {
			// The selection is now the persisted baseline; a later save
			// must not replay these edges.
			f.diffs.Seed(field.Key, f.diffs.Selected(field.Key))
		}
	}
}

func savedID(resp interface{}) string {
	m, ok := resp.(map[string]interface{})
	if !ok {
		return ""
	}
	if data, ok := m["data"].(map[string]interface{}); ok {
		if id := idOf(data); id != "" {
			return id
		}
	}
	return idOf(m)
}

func idOf(m map[string]interface{}) string {
	switch v := m["id"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%v", v)
	}
	return ""
}
