package config

import (
	"fmt"
	"time"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RateLimitKey returns the counter key for one client in one fixed window.
func (r *CacheKeyStruct) RateLimitKey(scope, clientIP string, window time.Duration, now time.Time) string {
	bucket := now.Unix() / int64(window/time.Second)
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, clientIP, bucket)
}

// BookingFeedChannel returns the Redis PubSub channel carrying booking events.
func (r *CacheKeyStruct) BookingFeedChannel() string {
	return "bookings:feed"
}

var CacheKey = NewCacheKeyStruct()
