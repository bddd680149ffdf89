// Package log provides a logrus client for the whole application, with an
// optional Sentry hook enabled by the SENTRY_DSN environment variable.
package log

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gobuffalo/buffalo"
	"github.com/sirupsen/logrus"
)

const ContextKeySentryHub = "sentry_hub"

var client = logrus.New()

func init() {
	client.SetOutput(os.Stdout)
	client.SetFormatter(&logrus.JSONFormatter{})
	if os.Getenv("GO_ENV") == "development" {
		client.SetFormatter(&logrus.TextFormatter{})
	}

	if hook := newSentryHook(os.Getenv("GO_ENV")); hook != nil {
		client.AddHook(hook)
	}
}

func WithFields(fields map[string]any) *logrus.Entry {
	return client.WithFields(fields)
}

func WithContext(ctx context.Context) *logrus.Entry {
	return client.WithContext(ctx)
}

func Debugf(format string, args ...any) { client.Debugf(format, args...) }

func Info(args ...any) { client.Info(args...) }

func Infof(format string, args ...any) { client.Infof(format, args...) }

func Warning(args ...any) { client.Warning(args...) }

func Warningf(format string, args ...any) { client.Warningf(format, args...) }

func Error(args ...any) { client.Error(args...) }

func Errorf(format string, args ...any) { client.Errorf(format, args...) }

func Fatal(args ...any) { client.Fatal(args...) }

func Fatalf(format string, args ...any) { client.Fatalf(format, args...) }

var logrusToSentryLevel = map[logrus.Level]sentry.Level{
	logrus.PanicLevel: sentry.LevelFatal,
	logrus.FatalLevel: sentry.LevelFatal,
	logrus.ErrorLevel: sentry.LevelError,
	logrus.WarnLevel:  sentry.LevelWarning,
	logrus.InfoLevel:  sentry.LevelInfo,
	logrus.DebugLevel: sentry.LevelDebug,
	logrus.TraceLevel: sentry.LevelDebug,
}

type sentryHook struct {
	hub *sentry.Hub
}

func newSentryHook(env string) *sentryHook {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		panic(fmt.Sprintf("sentry.Init: %s", err))
	}

	return &sentryHook{hub: sentry.CurrentHub()}
}

func (s *sentryHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
}

func (s *sentryHook) Fire(entry *logrus.Entry) error {
	extras := entry.Data

	// auth and not-found noise is not worth a Sentry event
	if extras["status"] == 401 || extras["status"] == 404 {
		return nil
	}

	event := sentry.Event{
		Extra:   extras,
		Level:   logrusToSentryLevel[entry.Level],
		Message: entry.Message,
	}
	if c, ok := entry.Context.(buffalo.Context); ok {
		event.Request = sentry.NewRequest(c.Request())
	}

	sentry.CaptureEvent(&event)
	return nil
}

// SentryMiddleware attaches a Sentry hub to the request context and recovers
// from panics so they are reported before being re-raised.
func SentryMiddleware(next buffalo.Handler) buffalo.Handler {
	return func(c buffalo.Context) error {
		r := c.Request()
		hub := sentry.GetHubFromContext(r.Context())

		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}

		hub.Scope().SetRequest(r)
		defer recoverWithSentry(hub, r)
		c.Set(ContextKeySentryHub, hub)
		return next(c)
	}
}

func recoverWithSentry(hub *sentry.Hub, r *http.Request) {
	if err := recover(); err != nil {
		eventID := hub.RecoverWithContext(
			context.WithValue(r.Context(), sentry.RequestContextKey, r),
			err,
		)
		if eventID != nil {
			hub.Flush(time.Second * 2)
		}
		panic(err)
	}
}

// SetUser associates the authenticated user with subsequent Sentry events.
func SetUser(c buffalo.Context, id, username, email string) {
	hub, ok := c.Value(ContextKeySentryHub).(*sentry.Hub)
	if !ok {
		return
	}
	hub.Scope().SetUser(sentry.User{
		ID:       id,
		Username: username,
		Email:    email,
	})
}
