package limiter

import (
	"context"
	"sync"
	"time"
)

// Giới hạn số lượng request trong 1 giây, dùng chung cho trang trending và GraphQL API
type RateLimiter struct {
	requestTimes []time.Time
	maxRequests  int
	delay        time.Duration
	now          func() time.Time
	mu           sync.Mutex
}

// maxRequests <= 0 nghĩa là không giới hạn
func NewRateLimiter(maxRequests int, delay time.Duration) *RateLimiter {
	if delay <= 0 {
		delay = 50 * time.Millisecond
	}
	return &RateLimiter{
		requestTimes: make([]time.Time, 0, max(maxRequests, 0)),
		maxRequests:  maxRequests,
		delay:        delay,
		now:          time.Now,
	}
}

// Allow kiểm tra xem có thể thực hiện request mới hay không
func (r *RateLimiter) Allow() bool {
	if r.maxRequests <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	oneSecondAgo := now.Add(-1 * time.Second)

	validTimes := r.requestTimes[:0]
	for _, t := range r.requestTimes {
		if t.After(oneSecondAgo) {
			validTimes = append(validTimes, t)
		}
	}
	r.requestTimes = validTimes

	if len(r.requestTimes) < r.maxRequests {
		r.requestTimes = append(r.requestTimes, now)
		return true
	}

	return false
}

// Wait chặn cho tới khi được phép gửi request hoặc ctx bị huỷ
func (r *RateLimiter) Wait(ctx context.Context) error {
	for !r.Allow() {
		timer := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
