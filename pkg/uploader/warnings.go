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
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/plantsync/plantsync/pkg/models"
)

const (
	notificationTitle = "OpenPlantbook sensor upload"

	// Escalate once nothing has reached the remote for three days.
	noUploadThreshold = 3 * 24 * time.Hour

	timestampLayout = "2006-01-02 15:04:05"
)

// emitWarnings turns the cycle's findings into log entries and, when
// enabled, a single grouped user notification. Cycle-level checks run only
// when the cycle had nothing to send: either the last successful upload is
// too old, or no upload ever happened and today is the configured weekly
// reminder day.
func (s *Service) emitWarnings(ctx context.Context, log *zerolog.Logger, report *cycleReport) {
	if message := composeWarning(report); message != "" {
		s.notify(ctx, log, message)
	}

	if report.hadPayload {
		return
	}

	if report.maxLatest != nil {
		age := report.now.Sub(*report.maxLatest)
		if age <= noUploadThreshold {
			return
		}

		message := fmt.Sprintf("No plant sensor data has been uploaded since %s (%s ago).",
			formatTimestamp(*report.maxLatest), relativeAge(age))

		log.Warn().Time("last_upload", *report.maxLatest).Msg("No recent sensor data upload")
		s.notify(ctx, log, message)

		return
	}

	if !weekdayMatches(report.now, s.cfg.NotifyMissingWeekday) {
		return
	}

	log.Warn().Msg("Plant sensor data has never been uploaded successfully")
	s.notify(ctx, log, "Plant sensor data has never been uploaded successfully. "+
		"Check the plant and sensor configuration.")
}

func (s *Service) notify(ctx context.Context, log *zerolog.Logger, message string) {
	if !s.cfg.NotifyWarnings {
		return
	}

	if err := s.notifier.Notify(ctx, notificationTitle, message); err != nil {
		log.Error().Err(err).Msg("Failed to deliver warning notification")
	}
}

// composeWarning renders the grouped per-plant warning message, or "" when
// the cycle found nothing to warn about.
func composeWarning(report *cycleReport) string {
	if len(report.stale) == 0 && len(report.missing) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString("Some plant sensors are not reporting fresh data. ")
	b.WriteString("Check sensor batteries and connectivity.\n")

	if len(report.stale) > 0 {
		b.WriteString("\nStale sensor data:\n")
		writeGrouped(&b, report, report.stale, func(rec *models.StalenessRecord) string {
			return fmt.Sprintf("  - %s (%s): last valid reading %s (%s ago)\n",
				rec.EntityID, rec.Measurement,
				formatTimestamp(*rec.LastValid), relativeAge(rec.Age))
		})
	}

	if len(report.missing) > 0 {
		b.WriteString("\nNo valid sensor data:\n")
		writeGrouped(&b, report, report.missing, func(rec *models.StalenessRecord) string {
			return fmt.Sprintf("  - %s (%s): no valid reading recorded\n",
				rec.EntityID, rec.Measurement)
		})
	}

	return b.String()
}

// writeGrouped writes one section of records grouped per plant, in cycle
// discovery order, each group headed by the remote's last-upload context.
func writeGrouped(
	b *strings.Builder,
	report *cycleReport,
	records []models.StalenessRecord,
	line func(*models.StalenessRecord) string,
) {
	byPlant := make(map[string][]*models.StalenessRecord)
	for i := range records {
		byPlant[records[i].PlantName] = append(byPlant[records[i].PlantName], &records[i])
	}

	for _, plant := range report.order {
		recs := byPlant[plant]
		if len(recs) == 0 {
			continue
		}

		fmt.Fprintf(b, "- %s (last upload: %s):\n", plant, lastUploadContext(report, plant))

		for _, rec := range recs {
			b.WriteString(line(rec))
		}
	}
}

func lastUploadContext(report *cycleReport, plant string) string {
	latest := report.latest[plant]
	if latest == nil {
		return "never"
	}

	return fmt.Sprintf("%s, %s ago",
		formatTimestamp(*latest), relativeAge(report.now.Sub(*latest)))
}

// formatTimestamp renders a timestamp for user messages, sub-second part
// truncated.
func formatTimestamp(t time.Time) string {
	return t.Truncate(time.Second).Format(timestampLayout)
}

// relativeAge renders a duration at the coarsest sensible unit.
func relativeAge(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		return plural(int(d.Hours())/24, "day")
	case d >= time.Hour:
		return plural(int(d.Hours()), "hour")
	default:
		return plural(int(d.Minutes()), "minute")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}

// weekdayMatches reports whether now falls on the configured weekday name.
// Unset or unrecognized configuration means Sunday.
func weekdayMatches(now time.Time, configured string) bool {
	target := time.Sunday

	if configured != "" {
		for day := time.Sunday; day <= time.Saturday; day++ {
			if strings.EqualFold(day.String(), configured) {
				target = day
				break
			}
		}
	}

	return now.Weekday() == target
}
