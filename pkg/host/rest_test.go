package host

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantsync/plantsync/pkg/logger"
	"github.com/plantsync/plantsync/pkg/models"
)

func newRESTClient(t *testing.T, handler http.HandlerFunc) *RESTClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewRESTClient(&models.HostConfig{
		BaseURL: server.URL,
		Token:   "host-token",
	}, logger.NewTestLogger())
}

func TestRESTClient_SetState(t *testing.T) {
	var gotPath, gotAuth string

	var gotBody statePayload

	client := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.SetState(context.Background(), "openplantbook.search_result", "3",
		map[string]interface{}{"monstera deliciosa": "Monstera deliciosa"})
	require.NoError(t, err)

	assert.Equal(t, "/api/states/openplantbook.search_result", gotPath)
	assert.Equal(t, "Bearer host-token", gotAuth)
	assert.Equal(t, "3", gotBody.State)
	assert.Equal(t, "Monstera deliciosa", gotBody.Attributes["monstera deliciosa"])
}

func TestRESTClient_GetStateMissing(t *testing.T) {
	client := newRESTClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	state, err := client.GetState(context.Background(), "openplantbook.nope")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestRESTClient_RemoveStateMissingIsNoop(t *testing.T) {
	client := newRESTClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	require.NoError(t, client.RemoveState(context.Background(), "openplantbook.gone"))
}

func TestRESTClient_Notify(t *testing.T) {
	var gotPath string

	var gotBody map[string]string

	client := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	err := client.Notify(context.Background(), "OpenPlantbook", "Stale sensors found")
	require.NoError(t, err)

	assert.Equal(t, "/api/services/persistent_notification/create", gotPath)
	assert.Equal(t, "OpenPlantbook", gotBody["title"])
	assert.Equal(t, "Stale sensors found", gotBody["message"])
}

func TestRESTClient_ServerError(t *testing.T) {
	client := newRESTClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.SetState(context.Background(), "openplantbook.x", "1", nil)
	require.ErrorIs(t, err, errUnexpectedStatusCode)
}
