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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts pipeline activity per upload cycle.
type Metrics struct {
	CyclesTotal      prometheus.Counter
	CycleFailures    prometheus.Counter
	InstancesSkipped prometheus.Counter
	ReadingsAccepted prometheus.Counter
	ReadingsRejected prometheus.Counter
	SeriesUploaded   prometheus.Counter
	StalenessRecords *prometheus.CounterVec
}

// NewMetrics registers the pipeline metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "plantsync_upload_cycles_total",
			Help: "Number of upload cycles started.",
		}),
		CycleFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "plantsync_upload_cycle_failures_total",
			Help: "Number of upload cycles that failed at the command boundary.",
		}),
		InstancesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "plantsync_instances_skipped_total",
			Help: "Number of plant instances skipped due to per-instance failures.",
		}),
		ReadingsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "plantsync_readings_accepted_total",
			Help: "Number of sensor readings accepted into upload payloads.",
		}),
		ReadingsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "plantsync_readings_rejected_total",
			Help: "Number of sensor readings dropped by normalization.",
		}),
		SeriesUploaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "plantsync_series_uploaded_total",
			Help: "Number of non-empty time series included in uploads.",
		}),
		StalenessRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "plantsync_staleness_records_total",
			Help: "Number of staleness findings, by class.",
		}, []string{"class"}),
	}
}
