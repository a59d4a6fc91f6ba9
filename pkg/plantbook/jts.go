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

package plantbook

import (
	"time"

	"github.com/plantsync/plantsync/pkg/models"
)

// JTSDocument is the JSON time-series envelope the upload API accepts.
type JTSDocument struct {
	DocType string      `json:"docType"`
	Version string      `json:"version"`
	Data    []JTSSeries `json:"data"`
}

// JTSSeries is one named series of records for a registered plant instance.
type JTSSeries struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Records []JTSRecord `json:"records"`
}

// JTSRecord is a single timestamped value.
type JTSRecord struct {
	Timestamp time.Time `json:"ts"`
	Value     int       `json:"v"`
}

// NewJTSDocument converts the accepted time series of one upload cycle into
// the wire document. Empty series are dropped; records keep insertion order,
// which the aggregator guarantees is chronological.
func NewJTSDocument(series []models.TimeSeries) *JTSDocument {
	doc := &JTSDocument{
		DocType: "jts",
		Version: "1.0",
	}

	for _, ts := range series {
		if len(ts.Readings) == 0 {
			continue
		}

		s := JTSSeries{
			ID:      ts.RemoteID,
			Name:    ts.Kind.SeriesName(),
			Records: make([]JTSRecord, 0, len(ts.Readings)),
		}

		for _, r := range ts.Readings {
			s.Records = append(s.Records, JTSRecord{Timestamp: r.At, Value: r.Value})
		}

		doc.Data = append(doc.Data, s)
	}

	return doc
}

// Len returns the number of series in the document.
func (d *JTSDocument) Len() int {
	return len(d.Data)
}
