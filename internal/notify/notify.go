package notify

// Notifier receives the transient user-facing messages the engine emits:
// validation failures, fetch errors, partial relation-save failures. The
// dashboard shell renders them as toasts; tests record them.
type Notifier interface {
	Notify(level Level, message string)
}

type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// Recorder keeps every notification in order, for assertions.
type Recorder struct {
	Entries []Entry
}

type Entry struct {
	Level   Level
	Message string
}

func (r *Recorder) Notify(level Level, message string) {
	r.Entries = append(r.Entries, Entry{Level: level, Message: message})
}

func (r *Recorder) Messages() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Message
	}
	return out
}

// Discard drops everything. Useful where a Notifier is required but no
// surface exists to show messages.
type Discard struct{}

func (Discard) Notify(Level, string) {}
