package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "d***@smartcareer.ru", MaskEmail("demo@smartcareer.ru"))
	assert.Equal(t, "***@x.ru", MaskEmail("a@x.ru"))
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, "n***", MaskEmail("noatsign"))
}

func TestSecurityLoggerLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "smartcareer", "test")

	sl.LogLoginSuccess(context.Background(), "u1", "10.0.0.1", "curl", "req-1")
	sl.LogLoginFailed(context.Background(), "demo@smartcareer.ru", "10.0.0.1", "curl", "req-2", "bad_password")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "d***@smartcareer.ru", entries[1].ContextMap()["subject_value"])
}

func TestLoginTrackerInMemory(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultLoginTrackerConfig()
	cfg.MaxAttempts = 3
	lt := NewLoginTracker(cfg, nil, NewSecurityLogger(zap.NewNop(), "smartcareer", "test"))

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	lt.now = func() time.Time { return now }

	for i := 1; i <= 2; i++ {
		blocked, n, err := lt.RecordFailedAttempt(ctx, "a@b.ru", "1.1.1.1", "", "")
		require.NoError(t, err)
		assert.False(t, blocked)
		assert.Equal(t, i, n)
	}
	remaining, err := lt.GetRemainingAttempts(ctx, "a@b.ru")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	blocked, _, err := lt.RecordFailedAttempt(ctx, "a@b.ru", "1.1.1.1", "", "")
	require.NoError(t, err)
	assert.True(t, blocked)

	isBlocked, err := lt.IsBlocked(ctx, "a@b.ru", "")
	require.NoError(t, err)
	assert.True(t, isBlocked)

	// IP is blocked for other accounts too
	isBlocked, _ = lt.IsBlocked(ctx, "other@b.ru", "1.1.1.1")
	assert.True(t, isBlocked)

	now = now.Add(cfg.BlockDuration + time.Second)
	isBlocked, _ = lt.IsBlocked(ctx, "a@b.ru", "1.1.1.1")
	assert.False(t, isBlocked)
}

func TestLoginTrackerClearAttempts(t *testing.T) {
	ctx := context.Background()
	lt := NewLoginTracker(DefaultLoginTrackerConfig(), nil, NewSecurityLogger(zap.NewNop(), "smartcareer", "test"))

	_, _, _ = lt.RecordFailedAttempt(ctx, "a@b.ru", "", "", "")
	require.NoError(t, lt.ClearAttempts(ctx, "a@b.ru", ""))

	remaining, err := lt.GetRemainingAttempts(ctx, "a@b.ru")
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
}

func TestValidateFile(t *testing.T) {
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 16)...)
	pdf := []byte("%PDF-1.4\n%...")

	res := ValidateFile(KindImage, "me.JPG", jpeg)
	assert.True(t, res.Valid, res.Error)
	assert.Equal(t, "image/jpeg", res.ContentType)

	res = ValidateFile(KindImage, "cv.pdf", pdf)
	assert.False(t, res.Valid)

	res = ValidateFile(KindDocument, "cv.pdf", pdf)
	assert.True(t, res.Valid, res.Error)

	res = ValidateFile(KindDocument, "cv.pdf", jpeg)
	assert.False(t, res.Valid)

	res = ValidateFile(KindDocument, "cv.txt", []byte("Иван Петров, Go разработчик"))
	assert.True(t, res.Valid, res.Error)

	res = ValidateFile(KindDocument, "noext", pdf)
	assert.Equal(t, "file has no extension", res.Error)

	assert.Error(t, ValidateFileExtension(KindImage, "x.exe"))
	assert.NoError(t, ValidateFileExtension(KindDocument, "x.docx"))
}
