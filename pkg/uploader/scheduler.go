/*
 * Copyright 2026 the PlantSync Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package uploader

import (
	"context"
	"errors"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/plantsync/plantsync/pkg/logger"
	"github.com/plantsync/plantsync/pkg/models"
)

const defaultStartupDelay = 5 * time.Minute

// Slot is a fixed time of day at which the daily upload runs.
type Slot struct {
	Hour   int
	Minute int
	Second int
}

// DeriveSlot picks a stable pseudo-random daily slot for an installation.
// The draw is seeded from the installation identifier so restarts land on
// the same slot, while different installations spread their load across
// the day instead of hammering the remote at the same instant.
func DeriveSlot(installationID string) Slot {
	h := fnv.New64a()
	_, _ = h.Write([]byte(installationID))

	//nolint:gosec // load spreading, not cryptography
	second := rand.New(rand.NewSource(int64(h.Sum64()))).Intn(24 * 60 * 60)

	return Slot{
		Hour:   second / 3600,
		Minute: second % 3600 / 60,
		Second: second % 60,
	}
}

func (s Slot) String() string {
	return time.Date(0, 1, 1, s.Hour, s.Minute, s.Second, 0, time.UTC).Format("15:04:05")
}

// next returns the first occurrence of the slot strictly after now, in
// now's location.
func (s Slot) next(now time.Time) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(),
		s.Hour, s.Minute, s.Second, 0, now.Location())

	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}

	return at
}

// Scheduler drives the daily upload cycle: one catch-up run shortly after
// startup, then one run per day at the derived slot.
type Scheduler struct {
	service *Service
	slot    Slot
	delay   time.Duration
	clock   Clock
	logger  logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler for the given upload service. A zero
// startup delay in config selects the default five minutes.
func NewScheduler(service *Service, cfg *models.UploadConfig, installationID string, clock Clock, log logger.Logger) *Scheduler {
	delay := time.Duration(cfg.StartupDelay)
	if delay == 0 {
		delay = defaultStartupDelay
	}

	if clock == nil {
		clock = realClock{}
	}

	return &Scheduler{
		service: service,
		slot:    DeriveSlot(installationID),
		delay:   delay,
		clock:   clock,
		logger:  log,
	}
}

// Start launches the schedule loop. It returns immediately; Stop halts the
// loop and waits for an in-flight cycle to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	s.logger.Info().
		Str("slot", s.slot.String()).
		Dur("startup_delay", s.delay).
		Msg("Starting daily upload schedule")

	go s.loop(ctx)
}

// Stop halts the schedule loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.runOnce(ctx)
			timer.Reset(time.Until(s.slot.next(s.clock.Now())))
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if _, err := s.service.Run(ctx); err != nil {
		if errors.Is(err, ErrUploadInProgress) {
			s.logger.Warn().Msg("Skipping scheduled upload, a cycle is already running")
			return
		}

		s.logger.Error().Err(err).Msg("Scheduled upload cycle failed")
	}
}
