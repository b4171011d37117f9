package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	requestIDKey     contextKey = "request_id"
	userIDKey        contextKey = "user_id"
	kindKey          contextKey = "kind"
	applicationNoKey contextKey = "application_no"
)

// contextFields are copied onto every record logged through a context, in this order.
var contextFields = []contextKey{requestIDKey, userIDKey, kindKey, applicationNoKey}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithApplication tags ctx with the certificate kind and application number
// being processed. An empty applicationNo is not recorded, so the kind can be
// set before a number has been issued.
func WithApplication(ctx context.Context, kind, applicationNo string) context.Context {
	ctx = context.WithValue(ctx, kindKey, kind)
	if applicationNo != "" {
		ctx = context.WithValue(ctx, applicationNoKey, applicationNo)
	}
	return ctx
}

// FromContext returns the global logger annotated with whichever context fields are set.
func FromContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()

	var fields []any
	for _, key := range contextFields {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			fields = append(fields, string(key), v)
		}
	}

	if len(fields) > 0 {
		logger = logger.With(fields...)
	}
	return logger
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Error(msg, args...)
}

// CtxWithError logs at error level with the error attached.
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	fields := append([]any{"error", err.Error()}, args...)
	FromContext(ctx).Error(msg, fields...)
}
