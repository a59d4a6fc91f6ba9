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

// Package cache holds species detail records fetched from the catalog, with
// timestamp-based expiry and per-species de-duplication of concurrent
// fetches.
package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/plantsync/plantsync/pkg/logger"
	"github.com/plantsync/plantsync/pkg/models"
)

const (
	// DefaultTTL matches the host command default for clean_cache.
	DefaultTTL = 24 * time.Hour

	// defaultWaitTimeout bounds how long a caller waits on another caller's
	// in-flight fetch for the same species.
	defaultWaitTimeout = 10 * time.Second

	stateDomain = "openplantbook"
)

// ErrWaitTimeout is returned when a caller gave up waiting for a concurrent
// in-flight fetch. It is distinct from a lookup miss.
var ErrWaitTimeout = errors.New("timed out waiting for in-flight species fetch")

// Fetcher retrieves a species detail record from the catalog.
type Fetcher interface {
	Details(ctx context.Context, pid string) (*models.PlantDetails, error)
}

// StateStore maintains the per-species host state entities.
type StateStore interface {
	SetState(ctx context.Context, entityID, state string, attributes map[string]interface{}) error
	RemoveState(ctx context.Context, entityID string) error
}

type entry struct {
	details   *models.PlantDetails
	fetchedAt time.Time
}

// Service is the species cache. It is created at startup and injected into
// the command handlers; a single instance owns all cached entries.
type Service struct {
	fetcher     Fetcher
	states      StateStore
	ttl         time.Duration
	waitTimeout time.Duration
	logger      logger.Logger

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]entry
}

// New creates a cache service. A zero ttl selects DefaultTTL.
func New(fetcher Fetcher, states StateStore, ttl time.Duration, log logger.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Service{
		fetcher:     fetcher,
		states:      states,
		ttl:         ttl,
		waitTimeout: defaultWaitTimeout,
		logger:      log,
		entries:     make(map[string]entry),
	}
}

// Get returns the cached detail record for species, fetching it when absent
// or expired. Concurrent callers for the same species share one fetch; a
// caller that waits longer than the bounded timeout gets ErrWaitTimeout.
func (s *Service) Get(ctx context.Context, species string) (*models.PlantDetails, error) {
	if cached := s.lookup(species); cached != nil {
		s.logger.Debug().Str("species", species).Msg("Species served from cache")
		return cached, nil
	}

	resultCh := s.group.DoChan(species, func() (interface{}, error) {
		return s.fetch(ctx, species)
	})

	timer := time.NewTimer(s.waitTimeout)
	defer timer.Stop()

	select {
	case res := <-resultCh:
		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.(*models.PlantDetails), nil
	case <-timer.C:
		return nil, ErrWaitTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) lookup(species string) *models.PlantDetails {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[species]
	if !ok || time.Since(e.fetchedAt) >= s.ttl {
		return nil
	}

	return e.details
}

func (s *Service) fetch(ctx context.Context, species string) (*models.PlantDetails, error) {
	details, err := s.fetcher.Details(ctx, species)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries[species] = entry{details: details, fetchedAt: time.Now()}
	s.mu.Unlock()

	if err := s.states.SetState(ctx, StateEntityID(details.PID), details.DisplayPID, details.Attributes); err != nil {
		s.logger.Warn().Err(err).Str("species", species).Msg("Failed to set species state entity")
	}

	s.logger.Debug().Str("species", species).Str("pid", details.PID).Msg("Fetched species details")

	return details, nil
}

// CleanCache evicts entries older than the given number of hours and removes
// their state entities. It returns how many entries were evicted and is safe
// to call repeatedly.
func (s *Service) CleanCache(ctx context.Context, hours int) int {
	threshold := time.Duration(hours) * time.Hour

	s.mu.Lock()

	var evicted []string

	for species, e := range s.entries {
		if time.Since(e.fetchedAt) >= threshold {
			evicted = append(evicted, species)
		}
	}

	removed := make([]*models.PlantDetails, 0, len(evicted))

	for _, species := range evicted {
		removed = append(removed, s.entries[species].details)
		delete(s.entries, species)
	}

	s.mu.Unlock()

	for _, details := range removed {
		if err := s.states.RemoveState(ctx, StateEntityID(details.PID)); err != nil {
			s.logger.Warn().Err(err).Str("pid", details.PID).Msg("Failed to remove species state entity")
		}
	}

	if len(removed) > 0 {
		s.logger.Debug().Int("evicted", len(removed)).Msg("Cleaned species cache")
	}

	return len(removed)
}

// Len returns the number of cached entries.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// StateEntityID derives the host state entity id for a species PID.
func StateEntityID(pid string) string {
	slug := strings.ToLower(pid)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, slug)

	return stateDomain + "." + slug
}
