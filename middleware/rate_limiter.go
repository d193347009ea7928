package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/miko1qq/colink-sub000/utils"
)

// In-memory rate limiting: per-IP fixed windows for unauthenticated routes
// (register/login), per-user read/write windows behind auth. Single-process
// by design; a Redis-backed limiter would replace this for multi-instance
// deployments.

type timestamps []int64 // unix nanos

func nowUnix() int64 { return time.Now().UnixNano() }

// IPRateLimiter counts requests per client IP inside a sliding window.
type IPRateLimiter struct {
	max         int
	window      time.Duration
	mu          sync.Mutex
	state       map[string]timestamps
	trustedCIDR []string
}

func NewIPRateLimiter(maxReq int, window time.Duration) *IPRateLimiter {
	l := &IPRateLimiter{
		max:    maxReq,
		window: window,
		state:  make(map[string]timestamps),
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		l.trustedCIDR = strings.Split(v, ",")
	}
	go l.cleanupLoop()
	return l
}

// clientIPGeneric returns the client IP string. If trustedCIDR is provided,
// X-Forwarded-For / X-Real-IP headers are honored when remote addr is inside
// one of the trusted CIDRs or IPs.
func clientIPGeneric(r *http.Request, trustedCIDR []string) string {
	remoteHost, _, _ := net.SplitHostPort(r.RemoteAddr)
	remoteIP := net.ParseIP(remoteHost)
	trusted := false
	for _, cidr := range trustedCIDR {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		if strings.Contains(cidr, "/") {
			if _, ipnet, err := net.ParseCIDR(cidr); err == nil {
				if remoteIP != nil && ipnet.Contains(remoteIP) {
					trusted = true
					break
				}
			}
			continue
		}
		if ip := net.ParseIP(cidr); ip != nil && remoteIP != nil && ip.Equal(remoteIP) {
			trusted = true
			break
		}
	}
	if trusted {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return strings.TrimSpace(xr)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func tooManyRequests(w http.ResponseWriter, retryAfterSec int) {
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfterSec))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Too many requests, try again later",
		"data":    map[string]interface{}{"retry_after_seconds": retryAfterSec},
	})
}

// countInWindow appends now to the key's timestamps, drops expired entries
// and returns the resulting count plus the oldest retained timestamp.
func countInWindow(state map[string]timestamps, key string, now int64, window time.Duration) (int, int64) {
	cutoff := now - int64(window)
	arr := state[key]
	filtered := arr[:0]
	oldest := now
	for _, ts := range arr {
		if ts >= cutoff {
			filtered = append(filtered, ts)
			if ts < oldest {
				oldest = ts
			}
		}
	}
	filtered = append(filtered, now)
	state[key] = filtered
	return len(filtered), oldest
}

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIPGeneric(r, l.trustedCIDR)
		now := nowUnix()

		l.mu.Lock()
		count, oldest := countInWindow(l.state, ip, now, l.window)
		l.mu.Unlock()

		remaining := l.max - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", l.max))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > l.max {
			retryAfter := int((oldest + int64(l.window) - now) / 1e9)
			if retryAfter < 1 {
				retryAfter = 1
			}
			tooManyRequests(w, retryAfter)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) cleanupLoop() {
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		now := nowUnix()
		cutoff := now - int64(l.window)
		for k, arr := range l.state {
			var filtered timestamps
			for _, ts := range arr {
				if ts >= cutoff {
					filtered = append(filtered, ts)
				}
			}
			if len(filtered) == 0 {
				delete(l.state, k)
			} else {
				l.state[k] = filtered
			}
		}
		l.mu.Unlock()
	}
}

// UserRateLimiter applies separate read (GET) and write limits per user.
type UserRateLimiter struct {
	mu       sync.Mutex
	state    map[string]timestamps
	window   time.Duration
	maxRead  int
	maxWrite int
}

func NewUserRateLimiter(maxRead, maxWrite, windowSec int) *UserRateLimiter {
	l := &UserRateLimiter{
		state:    make(map[string]timestamps),
		window:   time.Duration(windowSec) * time.Second,
		maxRead:  maxRead,
		maxWrite: maxWrite,
	}
	go l.cleanupLoop()
	return l
}

func (l *UserRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := utils.GetUserID(r)
		if !ok {
			// unauthenticated endpoints fall back to the IP limiter in front
			next.ServeHTTP(w, r)
			return
		}

		kind := "w"
		limit := l.maxWrite
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			kind = "r"
			limit = l.maxRead
		}
		key := fmt.Sprintf("u:%d:%s", uid, kind)
		now := nowUnix()

		l.mu.Lock()
		count, oldest := countInWindow(l.state, key, now, l.window)
		l.mu.Unlock()

		if count > limit {
			retryAfter := int((oldest + int64(l.window) - now) / 1e9)
			if retryAfter < 1 {
				retryAfter = 1
			}
			tooManyRequests(w, retryAfter)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *UserRateLimiter) cleanupLoop() {
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		now := nowUnix()
		cutoff := now - int64(l.window)
		for k, arr := range l.state {
			var filtered timestamps
			for _, ts := range arr {
				if ts >= cutoff {
					filtered = append(filtered, ts)
				}
			}
			if len(filtered) == 0 {
				delete(l.state, k)
			} else {
				l.state[k] = filtered
			}
		}
		l.mu.Unlock()
	}
}

// Failed-login lockout. Redis-backed when available so multiple instances
// agree on the lock, otherwise per-process in memory.
var (
	loginMu   sync.Mutex
	failedMap = make(map[uint]int)
	lockMap   = make(map[uint]int64) // lockUntil unix nanos
)

func lockDuration(failures int) time.Duration {
	switch {
	case failures < 3:
		return 0
	case failures == 3:
		return time.Minute
	case failures == 4:
		return 5 * time.Minute
	case failures == 5:
		return 15 * time.Minute
	default:
		return 30 * time.Minute
	}
}

func IsAccountLocked(userID uint) (bool, time.Duration) {
	if utils.RedisClient != nil {
		ttl, err := utils.RedisClient.TTL(context.Background(), fmt.Sprintf("login:lock:u:%d", userID)).Result()
		if err == nil && ttl > 0 {
			return true, ttl
		}
		return false, 0
	}
	loginMu.Lock()
	defer loginMu.Unlock()
	until := lockMap[userID]
	if until == 0 {
		return false, 0
	}
	now := nowUnix()
	if until > now {
		return true, time.Duration(until - now)
	}
	delete(lockMap, userID)
	failedMap[userID] = 0
	return false, 0
}

func RecordFailedLogin(userID uint) {
	if utils.RedisClient != nil {
		ctx := context.Background()
		failKey := fmt.Sprintf("login:fail:u:%d", userID)
		failures, err := utils.RedisClient.Incr(ctx, failKey).Result()
		if err == nil {
			_, _ = utils.RedisClient.Expire(ctx, failKey, 30*time.Minute).Result()
			if d := lockDuration(int(failures)); d > 0 {
				_ = utils.RedisClient.Set(ctx, fmt.Sprintf("login:lock:u:%d", userID), "1", d).Err()
			}
			return
		}
		// Redis error: fall through to the in-memory tracker
	}
	loginMu.Lock()
	defer loginMu.Unlock()
	failedMap[userID]++
	if d := lockDuration(failedMap[userID]); d > 0 {
		lockMap[userID] = nowUnix() + int64(d)
	}
}

func ResetFailedLogins(userID uint) {
	if utils.RedisClient != nil {
		ctx := context.Background()
		_ = utils.RedisClient.Del(ctx, fmt.Sprintf("login:fail:u:%d", userID)).Err()
		_ = utils.RedisClient.Del(ctx, fmt.Sprintf("login:lock:u:%d", userID)).Err()
		return
	}
	loginMu.Lock()
	defer loginMu.Unlock()
	delete(failedMap, userID)
	delete(lockMap, userID)
}
