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
	"fmt"

	"github.com/rs/zerolog"

	"github.com/plantsync/plantsync/pkg/models"
	"github.com/plantsync/plantsync/pkg/plantbook"
)

var errRecoveryAbandoned = errors.New("species identifier recovery abandoned")

// registerInstance maps one plant instance to its remote catalog identity.
// When the remote rejects the species identifier, one recovery attempt is
// made: a catalog search for the identifier as free text, retried with the
// canonical PID iff the search yields exactly one result whose display name
// equals the supplied identifier. Users sometimes configure plants with the
// display name instead of the canonical PID, and the registration endpoint
// only accepts the latter.
func (s *Service) registerInstance(
	ctx context.Context,
	log *zerolog.Logger,
	plant *models.PlantInstance,
	location *models.Location,
) (*models.InstanceRegistration, error) {
	regMap := map[string]string{plant.LocalID: plant.SpeciesID}

	log.Debug().
		Str("instance", plant.LocalID).
		Str("species", plant.SpeciesID).
		Msg("Registering plant instance")

	regs, err := s.api.RegisterInstances(ctx, regMap, location)
	if err != nil {
		if errors.Is(err, plantbook.ErrInvalidPID) {
			return s.recoverRegistration(ctx, log, plant, location)
		}

		return nil, err
	}

	if len(regs) == 0 {
		return nil, plantbook.ErrEmptyResponse
	}

	return &regs[0], nil
}

func (s *Service) recoverRegistration(
	ctx context.Context,
	log *zerolog.Logger,
	plant *models.PlantInstance,
	location *models.Location,
) (*models.InstanceRegistration, error) {
	log.Info().
		Str("species", plant.SpeciesID).
		Msg("Species identifier rejected, searching catalog for a canonical match")

	search, err := s.api.Search(ctx, plant.SpeciesID)
	if err != nil {
		return nil, fmt.Errorf("recovery search failed: %w", err)
	}

	if search == nil || len(search.Results) != 1 {
		count := 0
		if search != nil {
			count = len(search.Results)
		}

		return nil, fmt.Errorf("%w: search for %q returned %d results",
			errRecoveryAbandoned, plant.SpeciesID, count)
	}

	match := search.Results[0]
	if match.DisplayPID != plant.SpeciesID {
		return nil, fmt.Errorf("%w: single result %q does not match %q by display name",
			errRecoveryAbandoned, match.DisplayPID, plant.SpeciesID)
	}

	log.Info().
		Str("species", plant.SpeciesID).
		Str("pid", match.PID).
		Msg("Retrying registration with canonical species identifier")

	regs, err := s.api.RegisterInstances(ctx,
		map[string]string{plant.LocalID: match.PID}, location)
	if err != nil {
		return nil, err
	}

	if len(regs) == 0 {
		return nil, plantbook.ErrEmptyResponse
	}

	plant.SpeciesID = match.PID

	return &regs[0], nil
}
