package services

import (
	"strconv"
	"sync/atomic"
	"time"
)

var lastID atomic.Int64

// nextTimeID returns a millisecond-timestamp id that is strictly increasing
// even when called several times within the same millisecond: a call that
// would collide with the previous id bumps past it instead.
func nextTimeID() string {
	for {
		now := time.Now().UnixMilli()
		last := lastID.Load()
		if now <= last {
			now = last + 1
		}
		if lastID.CompareAndSwap(last, now) {
			return strconv.FormatInt(now, 10)
		}
	}
}
