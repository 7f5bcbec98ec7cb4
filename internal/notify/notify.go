// Package notify delivers transient, dismissible user notifications.
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// Log writes notifications to a structured logger. It stands in for a real
// toast surface in headless runs.
type Log struct {
	logger zerolog.Logger
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger.With().Str("component", "notifier").Logger()}
}

func (l *Log) Success(title, message string) {
	l.logger.Info().Str("title", title).Msg(message)
}

func (l *Log) Error(title, message string) {
	l.logger.Warn().Str("title", title).Msg(message)
}

type Notification struct {
	Title   string
	Message string
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu        sync.Mutex
	successes []Notification
	errors    []Notification
}

func (r *Recorder) Success(title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, Notification{Title: title, Message: message})
}

func (r *Recorder) Error(title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, Notification{Title: title, Message: message})
}

func (r *Recorder) Successes() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.successes...)
}

func (r *Recorder) Errors() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.errors...)
}
