package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go-clinic-planning/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrBusy is returned when the per-(date, employee) exclusivity scope cannot
// be acquired within the configured timeout. Safe to retry with backoff.
var ErrBusy = errors.New("planning is busy for this employee and date")

const (
	// Interval for cleaning up stale lock entries
	lockCleanupInterval = 10 * time.Minute

	// How long a lock entry must be unused before cleanup
	lockStaleThreshold = 10 * time.Minute

	// Poll step while waiting for a contended key
	lockRetryStep = 5 * time.Millisecond
)

// ScheduleLockService serializes all mutating planning operations per
// (date, employee) key. Approvals and cancellations for different employees
// or different dates proceed fully in parallel; two writers on the same key
// take turns, and a writer that cannot get in before the timeout fails with
// ErrBusy instead of blocking indefinitely.
//
// Multi-key acquisition (leave ranges) sorts keys first so two overlapping
// ranges always lock in the same order and cannot deadlock.
type ScheduleLockService struct {
	log     *logrus.Logger
	timeout time.Duration

	// Per-key mutex, cleaned up in the background
	locks sync.Map // map[string]*lockWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// lockWithTimestamp tracks lock usage for cleanup. dead is guarded by mu:
// the cleanup sets it while holding the mutex before removing the entry from
// the map, so a waiter that raced the eviction sees the flag and refetches
// instead of locking an orphan.
type lockWithTimestamp struct {
	mu       sync.Mutex
	dead     bool
	lastUsed atomic.Int64 // Unix timestamp
}

// NewScheduleLockService creates the lock service and starts the background
// cleanup goroutine. Call Stop() during graceful shutdown.
func NewScheduleLockService(timeout time.Duration, log *logrus.Logger) *ScheduleLockService {
	svc := &ScheduleLockService{
		log:      log,
		timeout:  timeout,
		stopChan: make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupLoop()

	return svc
}

// Stop gracefully shuts down the service. Safe to call multiple times.
func (s *ScheduleLockService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("ScheduleLockService stopped")
	}
}

// LockKey builds the exclusivity scope key for one employee on one date.
func LockKey(date time.Time, employeeID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", date.Format("2006-01-02"), employeeID)
}

// CapacityKey builds the scope key shared by every slot write for one role on
// one half-day. Holding it makes the capacity count and the room pick atomic
// with the insert: without it, two approvals for different employees could
// both count below the maximum and both write.
func CapacityKey(date time.Time, part entity.DayPart, role entity.Role) string {
	return fmt.Sprintf("%s:%s:%s", date.Format("2006-01-02"), part, role)
}

// Acquire takes every given key, waiting up to the configured timeout for
// each. On success the returned release function unlocks all of them; on
// failure nothing stays held and ErrBusy is returned.
func (s *ScheduleLockService) Acquire(ctx context.Context, keys ...string) (func(), error) {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	sorted = dedupe(sorted)

	deadline := time.Now().Add(s.timeout)
	var held []*lockWithTimestamp

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
		}
	}

	for _, key := range sorted {
		entry, ok := s.lockKeyUntil(ctx, key, deadline)
		if !ok {
			release()
			s.log.Debugf("Lock acquisition timed out for key %s", key)
			return nil, ErrBusy
		}
		held = append(held, entry)
	}

	return release, nil
}

// lockKeyUntil refetches the entry after locking a dead one: the cleanup may
// have evicted it between LoadOrStore and TryLock.
func (s *ScheduleLockService) lockKeyUntil(ctx context.Context, key string, deadline time.Time) (*lockWithTimestamp, bool) {
	for {
		entry := s.getLock(key)
		if entry.mu.TryLock() {
			if entry.dead {
				entry.mu.Unlock()
				continue
			}
			entry.lastUsed.Store(time.Now().Unix())
			return entry, true
		}
		if time.Now().After(deadline) {
			return nil, false
		}
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(lockRetryStep):
		}
	}
}

func (s *ScheduleLockService) getLock(key string) *lockWithTimestamp {
	entry, _ := s.locks.LoadOrStore(key, &lockWithTimestamp{})
	result := entry.(*lockWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupLoop runs in background to clean stale lock entries
func (s *ScheduleLockService) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(lockCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Lock cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleLocks()
		}
	}
}

// cleanupStaleLocks removes unused entries using TryLock for safety. Evicted
// entries are marked dead while the mutex is held, so a waiter that loaded
// the entry just before the delete refetches instead of holding an orphan.
func (s *ScheduleLockService) cleanupStaleLocks() {
	cutoffTime := time.Now().Add(-lockStaleThreshold).Unix()
	var cleaned int

	s.locks.Range(func(key, value any) bool {
		entry, ok := value.(*lockWithTimestamp)
		if !ok {
			return true
		}

		if entry.mu.TryLock() {
			if entry.lastUsed.Load() < cutoffTime {
				entry.dead = true
				s.locks.Delete(key)
				cleaned++
			}
			entry.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale lock entries", cleaned)
	}
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, key := range sorted {
		if i == 0 || key != sorted[i-1] {
			out = append(out, key)
		}
	}
	return out
}
