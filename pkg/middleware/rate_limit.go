package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/logger"
)

type MemberExtractor func(r *http.Request) string

// MemberRateLimiter throttles booking attempts per member, keyed on the
// X-Member-ID header. Requests without a member ID pass through.
type MemberRateLimiter struct {
	mu              sync.RWMutex
	requests        map[string][]time.Time
	limit           int
	window          time.Duration
	memberExtractor MemberExtractor
	log             *logger.Logger
	stopCh          chan struct{}
}

func NewMemberRateLimiter(limit int, window time.Duration, extractor MemberExtractor, log *logger.Logger) *MemberRateLimiter {
	limiter := &MemberRateLimiter{
		requests:        make(map[string][]time.Time),
		limit:           limit,
		window:          window,
		memberExtractor: extractor,
		log:             log,
		stopCh:          make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *MemberRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for member, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, member)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *MemberRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *MemberRateLimiter) Allow(memberID string) bool {
	if memberID == "" {
		return true
	}

	now := time.Now()

	rl.mu.RLock()
	timestamps := rl.requests[memberID]
	rl.mu.RUnlock()

	validTimestamps := make([]time.Time, 0)
	for _, ts := range timestamps {
		if now.Sub(ts) < rl.window {
			validTimestamps = append(validTimestamps, ts)
		}
	}

	if len(validTimestamps) >= rl.limit {
		return false
	}

	validTimestamps = append(validTimestamps, now)

	rl.mu.Lock()
	rl.requests[memberID] = validTimestamps
	rl.mu.Unlock()

	return true
}

func MemberRateLimit(limiter *MemberRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			memberID := extractMemberID(r, limiter.memberExtractor)

			if memberID == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(memberID) {
				rejectRateLimited(w, limiter.log, r, memberID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractMemberID(r *http.Request, extractor MemberExtractor) string {
	if extractor == nil {
		return r.Header.Get("X-Member-ID")
	}
	return extractor(r)
}

func rejectRateLimited(w http.ResponseWriter, log *logger.Logger, r *http.Request, memberID string) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		if id, ok := rid.(string); ok {
			requestID = id
		}
	}

	log.Warn("Rate limit exceeded",
		"request_id", requestID,
		"member_id", memberID,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
}

func DefaultMemberExtractor(r *http.Request) string {
	return r.Header.Get("X-Member-ID")
}
