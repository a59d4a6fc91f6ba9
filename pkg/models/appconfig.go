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
	"errors"

	"github.com/plantsync/plantsync/pkg/logger"
)

const defaultListenAddr = ":8099"

var (
	ErrMissingPlantbookCredentials = errors.New("plantbook client_id and client_secret are required")
	ErrMissingHostBaseURL          = errors.New("host base_url is required")
	ErrMissingHostWebsocketURL     = errors.New("host websocket_url is required")
	ErrMissingHostToken            = errors.New("host token is required")
	ErrMissingRecorderHost         = errors.New("recorder host is required when uploading is enabled")
	ErrMissingRecorderDatabase     = errors.New("recorder database is required when uploading is enabled")
)

// Config is the root plantsync configuration.
type Config struct {
	// ListenAddr is the command API bind address.
	ListenAddr string `json:"listen_addr"`

	// APIKey guards the command endpoints. Empty disables authentication.
	APIKey string `json:"api_key"`

	// InstallationID seeds the daily upload slot. Defaults to the host
	// base URL so one installation keeps its slot across restarts.
	InstallationID string `json:"installation_id"`

	Plantbook PlantbookConfig `json:"plantbook"`
	Host      HostConfig      `json:"host"`
	Recorder  RecorderConfig  `json:"recorder"`
	Upload    UploadConfig    `json:"upload"`
	Images    ImageConfig     `json:"images"`

	// CacheTTL bounds how long species detail records are served from
	// cache. Zero selects the default of one day.
	CacheTTL Duration `json:"cache_ttl"`

	Logging *logger.Config `json:"logging"`
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}

	if c.InstallationID == "" {
		c.InstallationID = c.Host.BaseURL
	}

	if c.Plantbook.ClientID == "" || c.Plantbook.ClientSecret == "" {
		return ErrMissingPlantbookCredentials
	}

	if c.Host.BaseURL == "" {
		return ErrMissingHostBaseURL
	}

	if c.Host.WebsocketURL == "" {
		return ErrMissingHostWebsocketURL
	}

	if c.Host.Token == "" {
		return ErrMissingHostToken
	}

	if c.Upload.Enabled {
		if c.Recorder.Host == "" {
			return ErrMissingRecorderHost
		}

		if c.Recorder.Database == "" {
			return ErrMissingRecorderDatabase
		}
	}

	return nil
}
