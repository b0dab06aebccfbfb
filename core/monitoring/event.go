package monitoring

// Level is the severity attached to a captured event.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelFatal   Level = "fatal"
)

// User identifies the account active when the event was captured.
type User struct {
	Username string
}

// CapturedEvent is the enriched payload handed to a Sink. It is built per
// capture and never retained by the pipeline.
type CapturedEvent struct {
	Message       string
	Code          string
	ReferenceCode string
	Level         Level
	Tags          map[string]string
	Extra         map[string]any
	User          *User
}

func newCapturedEvent(level Level, username string) *CapturedEvent {
	return &CapturedEvent{
		Level: level,
		Tags:  make(map[string]string),
		Extra: make(map[string]any),
		User:  &User{Username: username},
	}
}

func mergeTags(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

func mergeExtra(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}
