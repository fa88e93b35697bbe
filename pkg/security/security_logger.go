package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType names a security event.
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventLoginSuccess       EventType = "login_success"
	EventLogout             EventType = "logout"
	EventRegistered         EventType = "user_registered"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventLimiterDegraded    EventType = "rate_limiter_degraded"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventRevokedTokenUsed   EventType = "revoked_token_used"
	EventBlockCreated       EventType = "block_created"
	EventUploadRejected     EventType = "upload_rejected"
)

// Subject kinds. Emails are masked and token ids hashed before logging.
const (
	SubjectEmail  = "email"
	SubjectIP     = "ip"
	SubjectUser   = "user_id"
	SubjectToken  = "token_id"
	SubjectSystem = "system"
)

var eventLevels = map[EventType]zapcore.Level{
	EventLoginSuccess:       zapcore.InfoLevel,
	EventLogout:             zapcore.InfoLevel,
	EventRegistered:         zapcore.InfoLevel,
	EventLoginFailed:        zapcore.WarnLevel,
	EventRateLimitTriggered: zapcore.WarnLevel,
	EventUploadRejected:     zapcore.WarnLevel,
	EventLimiterDegraded:    zapcore.WarnLevel,
	EventLoginBlocked:       zapcore.ErrorLevel,
	EventBlockCreated:       zapcore.ErrorLevel,
	EventUnauthorizedAccess: zapcore.ErrorLevel,
	EventRevokedTokenUsed:   zapcore.ErrorLevel,
}

// SecurityEvent is one audit record. SubjectValue must already be masked.
type SecurityEvent struct {
	Event        EventType
	SubjectType  string
	SubjectValue string
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]interface{}
}

// MarshalLogObject writes the non-empty fields of the event.
func (e SecurityEvent) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("event", string(e.Event))
	for _, kv := range [][2]string{
		{"subject_type", e.SubjectType},
		{"subject_value", e.SubjectValue},
		{"ip", e.IP},
		{"user_agent", e.UserAgent},
		{"request_id", e.RequestID},
	} {
		if kv[1] != "" {
			enc.AddString(kv[0], kv[1])
		}
	}
	if len(e.Details) > 0 {
		return enc.AddReflected("details", e.Details)
	}
	return nil
}

// SecurityLogger writes security events through zap, separate from the
// request log.
type SecurityLogger struct {
	zapLogger *zap.Logger
}

var (
	defaultMu     sync.Mutex
	defaultLogger *SecurityLogger
)

// InitSecurityLogger builds the process-wide security logger (JSON on stdout).
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stdout"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	sl := NewSecurityLogger(logger, serviceName, environment)

	defaultMu.Lock()
	defaultLogger = sl
	defaultMu.Unlock()
	return sl
}

// NewSecurityLogger wraps logger and tags every entry with service and env.
func NewSecurityLogger(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecurityLogger{
		zapLogger: logger.With(zap.String("service", serviceName), zap.String("env", environment)),
	}
}

// DefaultLogger returns the process-wide logger, creating it on first use.
func DefaultLogger() *SecurityLogger {
	defaultMu.Lock()
	sl := defaultLogger
	defaultMu.Unlock()
	if sl == nil {
		return InitSecurityLogger("smartcareer", "development")
	}
	return sl
}

func (sl *SecurityLogger) Log(_ context.Context, event SecurityEvent) {
	level, ok := eventLevels[event.Event]
	if !ok {
		level = zapcore.WarnLevel
	}
	sl.zapLogger.Log(level, string(event.Event), zap.Inline(event))
}

func (sl *SecurityLogger) LogLoginSuccess(ctx context.Context, userID, ip, userAgent, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event: EventLoginSuccess, SubjectType: SubjectUser, SubjectValue: userID,
		IP: ip, UserAgent: userAgent, RequestID: requestID,
	})
}

func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, email, ip, userAgent, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event: EventLoginFailed, SubjectType: SubjectEmail, SubjectValue: MaskEmail(email),
		IP: ip, UserAgent: userAgent, RequestID: requestID,
		Details: map[string]interface{}{"reason": reason},
	})
}

func (sl *SecurityLogger) LogLoginBlocked(ctx context.Context, email, ip, userAgent, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event: EventLoginBlocked, SubjectType: SubjectEmail, SubjectValue: MaskEmail(email),
		IP: ip, UserAgent: userAgent, RequestID: requestID,
	})
}

func (sl *SecurityLogger) LogRegistered(ctx context.Context, userID string) {
	sl.Log(ctx, SecurityEvent{Event: EventRegistered, SubjectType: SubjectUser, SubjectValue: userID})
}

func (sl *SecurityLogger) LogLogout(ctx context.Context, tokenID string) {
	sl.Log(ctx, SecurityEvent{Event: EventLogout, SubjectType: SubjectToken, SubjectValue: HashValue(tokenID)})
}

func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event: EventRateLimitTriggered, SubjectType: SubjectIP, SubjectValue: ip,
		IP: ip, UserAgent: userAgent, RequestID: requestID,
		Details: map[string]interface{}{"endpoint": endpoint},
	})
}

// LogLimiterDegraded records that Redis failed and the in-memory counter took over.
func (sl *SecurityLogger) LogLimiterDegraded(ctx context.Context, ip string, err error) {
	sl.Log(ctx, SecurityEvent{
		Event: EventLimiterDegraded, SubjectType: SubjectSystem, IP: ip,
		Details: map[string]interface{}{"error": err.Error()},
	})
}

func (sl *SecurityLogger) LogRevokedTokenUsed(ctx context.Context, tokenID, ip, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event: EventRevokedTokenUsed, SubjectType: SubjectToken, SubjectValue: HashValue(tokenID),
		IP: ip, RequestID: requestID,
	})
}

func (sl *SecurityLogger) LogBlockCreated(ctx context.Context, subjectType, subjectValue, ip, requestID string, durationMinutes int) {
	sl.Log(ctx, SecurityEvent{
		Event: EventBlockCreated, SubjectType: subjectType, SubjectValue: maskValue(subjectType, subjectValue),
		IP: ip, RequestID: requestID,
		Details: map[string]interface{}{"duration_minutes": durationMinutes},
	})
}

func (sl *SecurityLogger) LogUploadRejected(ctx context.Context, userID, filename, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event: EventUploadRejected, SubjectType: SubjectUser, SubjectValue: userID,
		Details: map[string]interface{}{"filename": filename, "reason": reason},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	atIndex := strings.IndexByte(email, '@')
	if atIndex < 0 {
		return string(email[0]) + "***"
	}
	if atIndex <= 1 {
		return "***" + email[atIndex:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func maskValue(subjectType, value string) string {
	switch subjectType {
	case SubjectEmail:
		return MaskEmail(value)
	case SubjectIP:
		return value
	default:
		return HashValue(value)
	}
}
