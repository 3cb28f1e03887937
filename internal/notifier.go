package internal

import (
	"sync"
)

// NotificationLevel classifies a user-facing notification
type NotificationLevel int

const (
	NotifyInfo NotificationLevel = iota
	NotifySuccess
	NotifyError
)

// Notification is a short, non-blocking message for the user
type Notification struct {
	Level   NotificationLevel
	Message string
}

// Notifier surfaces non-blocking notifications. Implementations must not block.
type Notifier interface {
	Info(message string)
	Success(message string)
	Error(message string)
}

// TerminalNotifier prints notifications with the shared terminal styles
type TerminalNotifier struct{}

func (TerminalNotifier) Info(message string)    { PrintInfo(message) }
func (TerminalNotifier) Success(message string) { PrintSuccess(message) }
func (TerminalNotifier) Error(message string)   { PrintError(message) }

// DiscardNotifier drops every notification
type DiscardNotifier struct{}

func (DiscardNotifier) Info(string)    {}
func (DiscardNotifier) Success(string) {}
func (DiscardNotifier) Error(string)   {}

// ChannelNotifier forwards notifications to a buffered channel, dropping
// them when the buffer is full so callers never block
type ChannelNotifier struct {
	C chan Notification
}

// NewChannelNotifier creates a notifier with the given buffer size
func NewChannelNotifier(size int) *ChannelNotifier {
	return &ChannelNotifier{C: make(chan Notification, size)}
}

func (n *ChannelNotifier) send(level NotificationLevel, message string) {
	select {
	case n.C <- Notification{Level: level, Message: message}:
	default:
		LogWarn("Dropped notification: %s", message)
	}
}

func (n *ChannelNotifier) Info(message string)    { n.send(NotifyInfo, message) }
func (n *ChannelNotifier) Success(message string) { n.send(NotifySuccess, message) }
func (n *ChannelNotifier) Error(message string)   { n.send(NotifyError, message) }

// NotificationRecorder keeps every notification in memory
type NotificationRecorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *NotificationRecorder) add(level NotificationLevel, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

func (r *NotificationRecorder) Info(message string)    { r.add(NotifyInfo, message) }
func (r *NotificationRecorder) Success(message string) { r.add(NotifySuccess, message) }
func (r *NotificationRecorder) Error(message string)   { r.add(NotifyError, message) }

// All returns a copy of the recorded notifications
func (r *NotificationRecorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Count returns how many notifications of level were recorded
func (r *NotificationRecorder) Count(level NotificationLevel) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.items {
		if it.Level == level {
			n++
		}
	}
	return n
}
