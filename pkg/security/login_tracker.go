package security

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // Maximum failed attempts before block (default: 5)
	AttemptWindow time.Duration // Time window for tracking attempts (default: 15min)
	BlockDuration time.Duration // How long to block after max attempts (default: 15min)
	UseIPTracking bool          // Also track by IP address (default: true)
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker tracks failed login attempts and enforces blocks.
// Counters live in Redis when a client is given, otherwise in process memory.
type LoginTracker struct {
	config LoginTrackerConfig
	logger *SecurityLogger
	client *goredis.Client

	mu       sync.Mutex
	counters map[string]memCounter
	blocks   map[string]time.Time
	now      func() time.Time
}

type memCounter struct {
	count     int
	expiresAt time.Time
}

// NewLoginTracker creates a new login tracker. client may be nil.
func NewLoginTracker(config LoginTrackerConfig, client *goredis.Client, logger *SecurityLogger) *LoginTracker {
	if logger == nil {
		logger = DefaultLogger()
	}
	return &LoginTracker{
		config:   config,
		logger:   logger,
		client:   client,
		counters: make(map[string]memCounter),
		blocks:   make(map[string]time.Time),
		now:      time.Now,
	}
}

// Redis key patterns
const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// IsBlocked checks if the given email or IP is currently blocked
func (lt *LoginTracker) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	keys := []string{blockedLoginUserPrefix + email}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}

	if lt.client == nil {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		now := lt.now()
		for _, k := range keys {
			if until, ok := lt.blocks[k]; ok {
				if now.Before(until) {
					return true, nil
				}
				delete(lt.blocks, k)
			}
		}
		return false, nil
	}

	exists, err := lt.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	return exists > 0, nil
}

// RecordFailedAttempt records a failed login attempt.
// Returns (blocked, currentAttempts, error).
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error) {
	lt.logger.LogLoginFailed(ctx, email, ip, userAgent, requestID, "invalid_credentials")

	userCount, err := lt.increment(ctx, failLoginUserPrefix+email)
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment user counter: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_, _ = lt.increment(ctx, failLoginIPPrefix+ip) // best effort
	}

	if userCount >= lt.config.MaxAttempts {
		if err := lt.createBlock(ctx, email, ip, requestID); err != nil {
			return true, userCount, fmt.Errorf("failed to create block: %w", err)
		}
		return true, userCount, nil
	}
	return false, userCount, nil
}

func (lt *LoginTracker) increment(ctx context.Context, key string) (int, error) {
	if lt.client == nil {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		now := lt.now()
		c := lt.counters[key]
		if now.After(c.expiresAt) {
			c = memCounter{expiresAt: now.Add(lt.config.AttemptWindow)}
		}
		c.count++
		lt.counters[key] = c
		return c.count, nil
	}

	ttlSeconds := int(lt.config.AttemptWindow.Seconds())
	result, err := lt.client.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

func (lt *LoginTracker) createBlock(ctx context.Context, email, ip, requestID string) error {
	blockTTL := lt.config.BlockDuration
	keys := []string{blockedLoginUserPrefix + email}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}

	if lt.client == nil {
		lt.mu.Lock()
		until := lt.now().Add(blockTTL)
		for _, k := range keys {
			lt.blocks[k] = until
		}
		lt.mu.Unlock()
	} else {
		if err := lt.client.Set(ctx, keys[0], "1", blockTTL).Err(); err != nil {
			return fmt.Errorf("failed to set user block: %w", err)
		}
		for _, k := range keys[1:] {
			if err := lt.client.Set(ctx, k, "1", blockTTL).Err(); err != nil {
				// user is already blocked
				lt.logger.zapLogger.Warn("failed to set IP block", zap.Error(err))
			}
		}
	}

	lt.logger.LogBlockCreated(ctx, SubjectEmail, email, ip, requestID, int(blockTTL.Minutes()))
	return nil
}

// ClearAttempts clears failed login attempts on successful login
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email, ip string) error {
	keys := []string{failLoginUserPrefix + email}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, failLoginIPPrefix+ip)
	}

	if lt.client == nil {
		lt.mu.Lock()
		for _, k := range keys {
			delete(lt.counters, k)
		}
		lt.mu.Unlock()
		return nil
	}

	if err := lt.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear login attempts: %w", err)
	}
	return nil
}

// GetRemainingAttempts returns how many attempts remain before a block
func (lt *LoginTracker) GetRemainingAttempts(ctx context.Context, email string) (int, error) {
	key := failLoginUserPrefix + email
	var count int

	if lt.client == nil {
		lt.mu.Lock()
		if c, ok := lt.counters[key]; ok && lt.now().Before(c.expiresAt) {
			count = c.count
		}
		lt.mu.Unlock()
	} else {
		n, err := lt.client.Get(ctx, key).Int()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return 0, fmt.Errorf("failed to get attempt count: %w", err)
		}
		count = n
	}

	remaining := lt.config.MaxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// BlockDuration is how long a block lasts once created.
func (lt *LoginTracker) BlockDuration() time.Duration {
	return lt.config.BlockDuration
}
