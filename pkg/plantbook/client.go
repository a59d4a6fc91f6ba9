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

// Package plantbook implements the OpenPlantbook HTTP API client: catalog
// search, species detail, instance registration, and time-series upload.
package plantbook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/plantsync/plantsync/pkg/logger"
	"github.com/plantsync/plantsync/pkg/models"
)

const (
	defaultBaseURL = "https://open.plantbook.io/api/v1"
	defaultTimeout = 30 * time.Second

	// The registration endpoint reports a bad species identifier with this
	// marker in the error payload.
	invalidPIDMarker = "Invalid PID"
)

// Client talks to the OpenPlantbook API using client-credentials auth.
// Tokens are cached until shortly before expiry.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       logger.Logger

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a Plantbook API client. An empty base URL selects the
// public endpoint.
func NewClient(cfg *models.PlantbookConfig, log logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		logger:       log,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// getToken returns a valid access token, fetching a new one when the cached
// token is missing or about to expire.
func (c *Client) getToken(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", ErrMissingCredentials
	}

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", c.clientID)
	data.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/token/", strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusBadRequest:
		return "", ErrInvalidAuth
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: %d, response: %s", errTokenRequestFailed, resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", err
	}

	if token.AccessToken == "" {
		return "", ErrInvalidAuth
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	c.logger.Debug().Time("expiry", c.tokenExpiry).Msg("Obtained plantbook access token")

	return c.accessToken, nil
}

// Search performs a free-text catalog search.
func (c *Client) Search(ctx context.Context, alias string) (*models.PlantSearchResponse, error) {
	var result models.PlantSearchResponse

	query := url.Values{}
	query.Set("alias", alias)

	if err := c.doJSON(ctx, http.MethodGet, "/plant/search?"+query.Encode(), nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Details fetches the detail record for a canonical species identifier.
func (c *Client) Details(ctx context.Context, pid string) (*models.PlantDetails, error) {
	var raw map[string]interface{}

	path := "/plant/detail/" + url.PathEscape(pid) + "/"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, ErrEmptyResponse
	}

	details := &models.PlantDetails{Attributes: raw}
	details.PID, _ = raw["pid"].(string)
	details.DisplayPID, _ = raw["display_pid"].(string)
	details.ImageURL, _ = raw["image_url"].(string)

	if details.PID == "" {
		return nil, ErrEmptyResponse
	}

	enrichDLI(raw, c.logger)

	return details, nil
}

type registerRequest struct {
	Plants          map[string]string `json:"plants"`
	LocationCountry string            `json:"location_country,omitempty"`
	LocationLon     *float64          `json:"location_lon,omitempty"`
	LocationLat     *float64          `json:"location_lat,omitempty"`
}

type registerResult struct {
	ID         string `json:"id"`
	LatestData string `json:"latest_data"`
}

// RegisterInstances registers (or upserts) plant instances keyed by local
// instance id mapped to species PID, with optional location hints.
func (c *Client) RegisterInstances(
	ctx context.Context,
	instancePIDs map[string]string,
	location *models.Location,
) ([]models.InstanceRegistration, error) {
	reqBody := registerRequest{Plants: instancePIDs}

	if location != nil {
		reqBody.LocationCountry = location.Country
		reqBody.LocationLon = location.Longitude
		reqBody.LocationLat = location.Latitude
	}

	var results []registerResult

	if err := c.doJSON(ctx, http.MethodPost, "/sensor-data/instance", &reqBody, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, ErrEmptyResponse
	}

	registrations := make([]models.InstanceRegistration, 0, len(results))

	for _, r := range results {
		if r.ID == "" {
			return nil, ErrEmptyResponse
		}

		reg := models.InstanceRegistration{ID: r.ID}

		if r.LatestData != "" {
			ts, err := time.Parse(time.RFC3339, r.LatestData)
			if err != nil {
				return nil, fmt.Errorf("malformed latest_data %q: %w", r.LatestData, err)
			}

			reg.LatestData = &ts
		}

		registrations = append(registrations, reg)
	}

	return registrations, nil
}

// Upload posts one cycle's JTS document to the sensor-data upload endpoint.
func (c *Client) Upload(ctx context.Context, doc *JTSDocument) (bool, error) {
	var result struct {
		Status string `json:"status"`
	}

	if err := c.doJSON(ctx, http.MethodPost, "/sensor-data/upload", doc, &result); err != nil {
		return false, err
	}

	return true, nil
}

// doJSON runs one authenticated JSON round trip and maps error statuses to
// the client's sentinel errors.
func (c *Client) doJSON(ctx context.Context, method, path string, body, dst interface{}) error {
	token, err := c.getToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader

	if body != nil {
		payload, errMarshal := json.Marshal(body)
		if errMarshal != nil {
			return errMarshal
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrInvalidAuth
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		respBody, _ := io.ReadAll(resp.Body)
		if strings.Contains(string(respBody), invalidPIDMarker) {
			return fmt.Errorf("%w: %s", ErrInvalidPID, string(respBody))
		}

		return fmt.Errorf("%w: %d, response: %s", errUnexpectedStatusCode, resp.StatusCode, string(respBody))
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %d, response: %s", errUnexpectedStatusCode, resp.StatusCode, string(respBody))
	}

	if dst == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
