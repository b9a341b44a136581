package services

import (
	"context"
	"sync"
	"time"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/directory"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/observability"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/redisclient"
	"go.uber.org/zap"
)

const syncLockKey = "sync:lock"

// SyncResult summarizes one orchestrator run.
type SyncResult struct {
	Total     int
	Succeeded int
	Failed    int
	Batches   int
}

// SyncOrchestrator drives the refresh pipeline for every known user in
// fixed-size batches with a delay between batches. The pacing is
// deliberate rate limiting: the upstream penalizes bursts, so batch size
// and delay must stay small regardless of hardware.
type SyncOrchestrator struct {
	negotiation *Negotiation
	dir         directory.UserDirectory
	redis       *redisclient.Client
	batchSize   int
	batchDelay  time.Duration
	logger      *zap.Logger
}

// NewSyncOrchestrator wires the orchestrator. redis may be nil, which
// disables the overlap lock (tests).
func NewSyncOrchestrator(negotiation *Negotiation, dir directory.UserDirectory, redis *redisclient.Client, batchSize int, batchDelay time.Duration, logger *zap.Logger) *SyncOrchestrator {
	if batchSize < 1 {
		batchSize = 1
	}
	return &SyncOrchestrator{
		negotiation: negotiation,
		dir:         dir,
		redis:       redis,
		batchSize:   batchSize,
		batchDelay:  batchDelay,
		logger:      logger,
	}
}

// SyncAll refreshes every directory user. A single user's failure is
// classified and recorded but never aborts the batch or the run. Returns
// false when another sync already holds the lock.
func (s *SyncOrchestrator) SyncAll(ctx context.Context) (SyncResult, bool) {
	if !s.acquireLock(ctx) {
		s.logger.Warn("sync already in progress, skipping")
		return SyncResult{}, false
	}
	defer s.releaseLock(ctx)

	users, err := s.dir.All(ctx)
	if err != nil {
		s.logger.Error("failed to list directory users", zap.Error(err))
		return SyncResult{}, true
	}

	result := SyncResult{Total: len(users)}
	s.logger.Info("sync started",
		zap.Int("users", len(users)),
		zap.Int("batch_size", s.batchSize))

	for start := 0; start < len(users); start += s.batchSize {
		end := start + s.batchSize
		if end > len(users) {
			end = len(users)
		}
		batch := users[start:end]
		result.Batches++

		var wg sync.WaitGroup
		var mu sync.Mutex
		for _, user := range batch {
			wg.Add(1)
			go func(entry directory.Entry) {
				defer wg.Done()
				ok := s.syncOne(ctx, entry)
				mu.Lock()
				if ok {
					result.Succeeded++
				} else {
					result.Failed++
				}
				mu.Unlock()
			}(user)
		}
		wg.Wait()

		if end < len(users) {
			select {
			case <-ctx.Done():
				s.logger.Warn("sync cancelled", zap.Int("processed", end))
				return result, true
			case <-time.After(s.batchDelay):
			}
		}
	}

	s.logger.Info("sync finished",
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Int("batches", result.Batches))
	return result, true
}

// syncOne refreshes a single user, converting panics into failures so a
// bad record cannot take down the batch.
func (s *SyncOrchestrator) syncOne(ctx context.Context, entry directory.Entry) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic during user sync",
				zap.String("phone", observability.MaskPhone(entry.Phone)),
				zap.Any("panic", r))
			observability.SyncRuns.WithLabelValues("panic").Inc()
			ok = false
		}
	}()

	if _, err := s.negotiation.RefreshUser(ctx, entry.Phone); err != nil {
		// Already classified and recorded by the pipeline.
		s.logger.Warn("user sync failed",
			zap.String("phone", observability.MaskPhone(entry.Phone)),
			zap.Error(err))
		observability.SyncRuns.WithLabelValues("failed").Inc()
		return false
	}

	observability.SyncRuns.WithLabelValues("ok").Inc()
	return true
}

func (s *SyncOrchestrator) acquireLock(ctx context.Context) bool {
	if s.redis == nil {
		return true
	}
	acquired, err := s.redis.SetNX(ctx, syncLockKey, time.Now().UTC().Format(time.RFC3339), 30*time.Minute).Result()
	if err != nil {
		s.logger.Warn("sync lock unavailable, proceeding", zap.Error(err))
		return true
	}
	return acquired
}

func (s *SyncOrchestrator) releaseLock(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, syncLockKey).Err(); err != nil {
		s.logger.Warn("failed to release sync lock", zap.Error(err))
	}
}
