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

// Package host implements the home-automation host collaborators: the REST
// state store and notification sink, and the WebSocket registry client.
package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/plantsync/plantsync/pkg/logger"
	"github.com/plantsync/plantsync/pkg/models"
)

var errUnexpectedStatusCode = errors.New("unexpected status code")

const restTimeout = 15 * time.Second

// RESTClient sets, reads, and removes host state entities and delivers
// persistent notifications through the host's service API.
type RESTClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     logger.Logger
}

// NewRESTClient creates a host REST API client.
func NewRESTClient(cfg *models.HostConfig, log logger.Logger) *RESTClient {
	return &RESTClient{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: restTimeout},
		logger:     log,
	}
}

type statePayload struct {
	State       string                 `json:"state"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	LastUpdated string                 `json:"last_updated,omitempty"`
}

// SetState creates or updates a state entity with attributes.
func (c *RESTClient) SetState(ctx context.Context, entityID, state string, attributes map[string]interface{}) error {
	payload := statePayload{State: state, Attributes: attributes}

	return c.do(ctx, http.MethodPost, "/api/states/"+url.PathEscape(entityID), payload, nil)
}

// GetState reads one state entity. A 404 yields a nil state and no error.
func (c *RESTClient) GetState(ctx context.Context, entityID string) (*models.State, error) {
	var payload struct {
		EntityID    string                 `json:"entity_id"`
		State       string                 `json:"state"`
		Attributes  map[string]interface{} `json:"attributes"`
		LastUpdated time.Time              `json:"last_updated"`
	}

	err := c.do(ctx, http.MethodGet, "/api/states/"+url.PathEscape(entityID), nil, &payload)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &models.State{
		EntityID:    payload.EntityID,
		State:       payload.State,
		Attributes:  payload.Attributes,
		LastUpdated: payload.LastUpdated,
	}, nil
}

// RemoveState deletes a state entity. Removing a missing entity is not an
// error.
func (c *RESTClient) RemoveState(ctx context.Context, entityID string) error {
	err := c.do(ctx, http.MethodDelete, "/api/states/"+url.PathEscape(entityID), nil, nil)
	if errors.Is(err, errNotFound) {
		return nil
	}

	return err
}

// Notify creates a persistent notification on the host.
func (c *RESTClient) Notify(ctx context.Context, title, message string) error {
	payload := map[string]string{
		"title":   title,
		"message": message,
	}

	return c.do(ctx, http.MethodPost, "/api/services/persistent_notification/create", payload, nil)
}

var errNotFound = errors.New("entity not found")

func (c *RESTClient) do(ctx context.Context, method, path string, body, dst interface{}) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
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
	case http.StatusNotFound:
		return errNotFound
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %d, response: %s", errUnexpectedStatusCode, resp.StatusCode, string(respBody))
	}

	if dst == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
