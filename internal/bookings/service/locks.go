package service

import (
	"context"
	"sort"
	"time"

	berrors "github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/errors"
	apperrors "github.com/barreyo/ysc-redesign-ex-sub001/pkg/errors"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// acquireStayLocks takes one advisory lock per touched day, always in sorted
// key order so two requests over overlapping ranges cannot deadlock. A held
// lock is retried with backoff; exhausting the retries is a timeout outcome,
// distinct from any business failure.
//
// Returns the IDs acquired so far even on failure; the caller releases them.
func (s *BookingService) acquireStayLocks(ctx context.Context, propertyID model.PropertyID, days []time.Time, owner string) ([]string, error) {
	ids := make([]string, len(days))
	for i, day := range days {
		ids[i] = model.InventoryLockID(propertyID, day)
	}
	sort.Strings(ids)

	var acquired []string
	for _, id := range ids {
		if err := s.acquireLock(ctx, id, owner); err != nil {
			return acquired, err
		}
		acquired = append(acquired, id)
	}

	return acquired, nil
}

func (s *BookingService) acquireLock(ctx context.Context, id, owner string) error {
	for attempt := 0; attempt <= s.cfg.LockRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return apperrors.Timeout("booking request cancelled while waiting for inventory lock").
					WithReason(berrors.ReasonLockTimeout)
			case <-time.After(s.cfg.LockRetryBackoff):
			}
		}

		err := s.deps.Locks.Acquire(ctx, &model.InventoryLock{
			ID:        id,
			Owner:     owner,
			ExpiresAt: s.now().Add(s.cfg.LockTTL),
		})
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return apperrors.Internal("failed to acquire inventory lock", err)
		}
	}

	s.cfg.Log.Warn("Inventory lock contention exhausted retries",
		"lock_id", id,
		"retries", s.cfg.LockRetries,
	)

	return apperrors.Timeout("inventory is busy, please retry").
		WithReason(berrors.ReasonLockTimeout)
}

// releaseStayLocks always runs, including on failure paths, with a fresh
// context so a cancelled request still cleans up after itself. The TTL index
// is the backstop for a process that dies here.
func (s *BookingService) releaseStayLocks(ids []string, owner string) {
	if len(ids) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()

	for _, id := range ids {
		if err := s.deps.Locks.Release(ctx, id, owner); err != nil {
			s.cfg.Log.Warn("Failed to release inventory lock, TTL will reap it",
				"lock_id", id,
				"error", err,
			)
		}
	}
}
