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

package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/plantsync/plantsync/pkg/logger"
	"github.com/plantsync/plantsync/pkg/models"
)

// The device and entity registries are only reachable over the host's
// WebSocket API, not its REST API.
const (
	wsTypeAuthRequired = "auth_required"
	wsTypeAuthOK       = "auth_ok"
	wsTypeAuthInvalid  = "auth_invalid"
	wsTypeResult       = "result"

	wsCmdDeviceRegistry = "config/device_registry/list"
	wsCmdEntityRegistry = "config/entity_registry/list"
)

var (
	errAuthRejected      = errors.New("host rejected websocket auth token")
	errUnexpectedMessage = errors.New("unexpected websocket message")
	errCommandFailed     = errors.New("websocket command failed")
)

// RegistryClient retrieves the host's device and entity registries over its
// WebSocket API. Each call dials a fresh connection, authenticates, issues
// one command, and closes; registry listings happen once per upload cycle so
// a persistent connection buys nothing.
type RegistryClient struct {
	wsURL  string
	token  string
	logger logger.Logger
}

// NewRegistryClient creates a registry client for the host WebSocket API.
func NewRegistryClient(cfg *models.HostConfig, log logger.Logger) *RegistryClient {
	return &RegistryClient{
		wsURL:  cfg.WebsocketURL,
		token:  cfg.Token,
		logger: log,
	}
}

type wsMessage struct {
	ID      int             `json:"id,omitempty"`
	Type    string          `json:"type"`
	Success *bool           `json:"success,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

type wsAuth struct {
	Type        string `json:"type"`
	AccessToken string `json:"access_token"`
}

// Devices lists the host device registry.
func (c *RegistryClient) Devices(ctx context.Context) ([]models.Device, error) {
	var rows []struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Model       string     `json:"model"`
		NameByUser  string     `json:"name_by_user"`
		Identifiers [][]string `json:"identifiers"`
	}

	if err := c.command(ctx, wsCmdDeviceRegistry, &rows); err != nil {
		return nil, err
	}

	devices := make([]models.Device, 0, len(rows))

	for _, row := range rows {
		device := models.Device{
			ID:         row.ID,
			Name:       row.Name,
			Model:      row.Model,
			NameByUser: row.NameByUser,
		}

		for _, pair := range row.Identifiers {
			if len(pair) == 2 {
				device.Identifiers = append(device.Identifiers,
					models.DeviceIdentifier{Domain: pair[0], ID: pair[1]})
			}
		}

		devices = append(devices, device)
	}

	return devices, nil
}

// Entities lists the host entity registry.
func (c *RegistryClient) Entities(ctx context.Context) ([]models.Entity, error) {
	var rows []struct {
		EntityID            string `json:"entity_id"`
		DeviceID            string `json:"device_id"`
		Platform            string `json:"platform"`
		OriginalDeviceClass string `json:"original_device_class"`
	}

	if err := c.command(ctx, wsCmdEntityRegistry, &rows); err != nil {
		return nil, err
	}

	entities := make([]models.Entity, 0, len(rows))

	for _, row := range rows {
		entities = append(entities, models.Entity{
			EntityID:            row.EntityID,
			DeviceID:            row.DeviceID,
			Platform:            row.Platform,
			OriginalDeviceClass: row.OriginalDeviceClass,
		})
	}

	return entities, nil
}

// command runs one authenticated request/response exchange.
func (c *RegistryClient) command(ctx context.Context, cmd string, dst interface{}) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial host websocket: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}

	if err := c.authenticate(conn); err != nil {
		return err
	}

	req := struct {
		ID   int    `json:"id"`
		Type string `json:"type"`
	}{ID: 1, Type: cmd}

	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("failed to send %s: %w", cmd, err)
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("failed to read %s result: %w", cmd, err)
		}

		if msg.Type != wsTypeResult || msg.ID != req.ID {
			continue
		}

		if msg.Success == nil || !*msg.Success {
			return fmt.Errorf("%w: %s", errCommandFailed, cmd)
		}

		return json.Unmarshal(msg.Result, dst)
	}
}

func (c *RegistryClient) authenticate(conn *websocket.Conn) error {
	var hello wsMessage
	if err := conn.ReadJSON(&hello); err != nil {
		return fmt.Errorf("failed to read websocket greeting: %w", err)
	}

	if hello.Type != wsTypeAuthRequired {
		return fmt.Errorf("%w: %s", errUnexpectedMessage, hello.Type)
	}

	if err := conn.WriteJSON(wsAuth{Type: "auth", AccessToken: c.token}); err != nil {
		return fmt.Errorf("failed to send auth: %w", err)
	}

	var result wsMessage
	if err := conn.ReadJSON(&result); err != nil {
		return fmt.Errorf("failed to read auth result: %w", err)
	}

	if result.Type == wsTypeAuthInvalid {
		return errAuthRejected
	}

	if result.Type != wsTypeAuthOK {
		return fmt.Errorf("%w: %s", errUnexpectedMessage, result.Type)
	}

	return nil
}
