package apiclient

import (
	"context"
	"log/slog"

	"smartcareer-backend/pkg/logger"
)

type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a user-facing message produced by a failed call.
type Notice struct {
	Level   NoticeLevel
	Kind    Kind
	Message string
}

// Notifier shows notices to the user (toast, status line, log).
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// LogNotifier writes notices to the application logger.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notice) {
	level := slog.LevelInfo
	if n.Level == NoticeError {
		level = slog.LevelWarn
	}
	logger.Log.Log(context.Background(), level, n.Message, "kind", string(n.Kind))
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notice) {}
