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

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var errInvalidDuration = errors.New("invalid duration")

// Duration is a time.Duration that unmarshals from either a Go duration
// string ("24h") or a numeric nanosecond count.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// PlantbookConfig holds the remote plant-catalog API credentials.
type PlantbookConfig struct {
	BaseURL      string `json:"base_url"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// HostConfig points at the home-automation host's REST and WebSocket APIs.
type HostConfig struct {
	BaseURL      string `json:"base_url"`
	WebsocketURL string `json:"websocket_url"`
	Token        string `json:"token"`
}

// RecorderConfig holds the connection parameters for the host's recorder
// database, where sensor state history is kept.
type RecorderConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"ssl_mode"`
}

// LocationConfig carries the optional location hints shared with the remote
// service during instance registration. Each part is independently opt-in.
type LocationConfig struct {
	ShareCountry     bool    `json:"share_country"`
	ShareCoordinates bool    `json:"share_coordinates"`
	Country          string  `json:"country"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

// UploadConfig controls the sensor-data upload pipeline.
type UploadConfig struct {
	Enabled              bool           `json:"enabled"`
	StartupDelay         Duration       `json:"startup_delay"`
	NotifyWarnings       bool           `json:"notify_warnings"`
	NotifyMissingWeekday string         `json:"notify_missing_weekday"`
	Location             LocationConfig `json:"location"`
}

// ImageConfig controls species image download on `get` lookups.
type ImageConfig struct {
	Download bool   `json:"download"`
	Path     string `json:"path"`
}
