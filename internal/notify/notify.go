// Package notify surfaces transient user-facing notices, the CLI equivalent
// of the admin panel's toast messages.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Notifier receives user-facing notices. Every failed operation surfaces
// exactly one notice at the point of failure; retries are always manual.
type Notifier interface {
	Info(title, detail string)
	Error(title, detail string)
}

// Log writes notices to a zap logger.
type Log struct {
	lg *zap.Logger
}

// NewLog creates a Log notifier on the given logger.
func NewLog(lg *zap.Logger) *Log {
	return &Log{lg: lg}
}

func (l *Log) Info(title, detail string) {
	l.lg.Info(title, zap.String("detail", detail))
}

func (l *Log) Error(title, detail string) {
	l.lg.Warn(title, zap.String("detail", detail))
}

// Discard drops all notices.
type Discard struct{}

func (Discard) Info(string, string)  {}
func (Discard) Error(string, string) {}

// Notice is a single recorded notification.
type Notice struct {
	Level  string
	Title  string
	Detail string
}

// Recorder captures notices for assertions in tests.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Info(title, detail string) {
	r.append(Notice{Level: "info", Title: title, Detail: detail})
}

func (r *Recorder) Error(title, detail string) {
	r.append(Notice{Level: "error", Title: title, Detail: detail})
}

func (r *Recorder) append(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Errors returns only the error-level notices.
func (r *Recorder) Errors() []Notice {
	var out []Notice
	for _, n := range r.Notices() {
		if n.Level == "error" {
			out = append(out, n)
		}
	}
	return out
}
