package journey

type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notice is a user-facing notification.
type Notice struct {
	Level   Level
	Message string
}

// Notifier receives notices raised by the orchestrator.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discard struct{}

func (discard) Notify(Notice) {}
