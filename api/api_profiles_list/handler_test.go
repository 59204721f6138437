package api_profiles_list_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/dracory/weequery/api/api_profiles_list"
	"github.com/dracory/weequery/internal/profiles"
	"github.com/dracory/weequery/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ServeHTTP(t *testing.T) {
	store := profiles.NewStore(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, store.Save(profiles.Profile{Name: "iris", Type: "iris", Host: "db", Port: "1972", User: "_SYSTEM", Password: "SYS"}))
	require.NoError(t, store.Save(profiles.Profile{Name: "local", Type: "sqlite", Database: "local.db"}))

	tests := []struct {
		name           string
		method         string
		expectError    bool
		expectProfiles int
	}{
		{name: "successful get with profiles", method: http.MethodGet, expectProfiles: 2},
		{name: "invalid method", method: http.MethodPost, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := api_profiles_list.New(types.Config{}, store)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, "/", nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.NotContains(t, rr.Body.String(), "SYS\"", "passwords must not be sent")

			var response struct {
				Status  string `json:"status"`
				Message string `json:"message"`
				Data    struct {
					Profiles []api_profiles_list.Profile `json:"profiles"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))

			if tt.expectError {
				assert.Equal(t, "error", response.Status)
				return
			}

			assert.Equal(t, "success", response.Status)
			require.Len(t, response.Data.Profiles, tt.expectProfiles)
			first := response.Data.Profiles[0]
			assert.Equal(t, "iris", first.Name)
			assert.Equal(t, "odbc", first.Type)
			assert.True(t, first.HasPassword)
			assert.False(t, response.Data.Profiles[1].HasPassword)
		})
	}
}

func TestHandler_EmptyStore(t *testing.T) {
	store := profiles.NewStore(filepath.Join(t.TempDir(), "missing.json"))
	rr := httptest.NewRecorder()
	api_profiles_list.New(types.Config{}, store).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	var response map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "success", response["status"])
	assert.Equal(t, map[string]any{"profiles": []any{}}, response["data"])
}
