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

// Package images saves species images alongside species lookups. Download
// failures are logged and never fail the lookup that triggered them.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/plantsync/plantsync/pkg/logger"
	"github.com/plantsync/plantsync/pkg/models"
)

const downloadTimeout = 30 * time.Second

var errUnexpectedStatus = errors.New("unexpected status fetching image")

// Downloader writes species images to a local directory, one file per
// species PID. Existing files are never re-fetched.
type Downloader struct {
	cfg    models.ImageConfig
	client *http.Client
	logger logger.Logger
}

func New(cfg models.ImageConfig, log logger.Logger) *Downloader {
	return &Downloader{
		cfg:    cfg,
		client: &http.Client{Timeout: downloadTimeout},
		logger: log,
	}
}

// Download fetches the species image if downloading is enabled and the file
// is not already present. It never returns an error; failures only log.
func (d *Downloader) Download(ctx context.Context, details *models.PlantDetails) {
	if !d.cfg.Download || details == nil || details.ImageURL == "" {
		return
	}

	target := filepath.Join(d.cfg.Path, fileName(details.PID, details.ImageURL))

	if _, err := os.Stat(target); err == nil {
		return
	}

	if err := d.fetch(ctx, details.ImageURL, target); err != nil {
		d.logger.Warn().Err(err).
			Str("pid", details.PID).
			Str("url", details.ImageURL).
			Msg("Failed to download species image")

		return
	}

	d.logger.Debug().Str("pid", details.PID).Str("path", target).Msg("Downloaded species image")
}

func (d *Downloader) fetch(ctx context.Context, imageURL, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(target)

		return fmt.Errorf("failed to write image file: %w", err)
	}

	return f.Close()
}

// fileName derives the local file name from the species PID and the image
// URL's extension.
func fileName(pid, imageURL string) string {
	ext := ".jpg"

	if u, err := url.Parse(imageURL); err == nil {
		if e := path.Ext(u.Path); e != "" {
			ext = e
		}
	}

	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, pid)

	return slug + ext
}
