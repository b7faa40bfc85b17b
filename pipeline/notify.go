package pipeline

// NoticeLevel classifies a user-visible notice.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a user-visible message emitted while a run progresses: per-item
// failures, cancellation and terminal success or failure. Notices complement
// the structured log; presentation decides how to surface them.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Notifier receives notices. Implementations must be safe to call from the
// goroutine running the batch.
type Notifier interface {
	Notify(Notice)
}

// NopNotifier discards all notices.
type NopNotifier struct{}

func (NopNotifier) Notify(Notice) {}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }
