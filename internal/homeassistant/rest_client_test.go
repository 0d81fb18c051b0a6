package homeassistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewRESTClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		baseURL     string
		wantBaseURL string
	}{
		{
			name:        "standard URL",
			baseURL:     "http://localhost:8123",
			wantBaseURL: "http://localhost:8123",
		},
		{
			name:        "URL with trailing slash",
			baseURL:     "http://localhost:8123/",
			wantBaseURL: "http://localhost:8123",
		},
		{
			name:        "URL with /api suffix",
			baseURL:     "http://localhost:8123/api",
			wantBaseURL: "http://localhost:8123",
		},
		{
			name:        "URL with /api/ suffix",
			baseURL:     "http://localhost:8123/api/",
			wantBaseURL: "http://localhost:8123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := NewRESTClient(tt.baseURL, "test-token")

			if client.BaseURL() != tt.wantBaseURL {
				t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), tt.wantBaseURL)
			}
			if client.token != "test-token" {
				t.Errorf("token = %q, want %q", client.token, "test-token")
			}
			if client.httpClient == nil {
				t.Error("httpClient is nil")
			}
		})
	}
}

func TestNewRESTClientWithConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		config      RESTClientConfig
		wantTimeout time.Duration
	}{
		{
			name:        "default timeout when zero",
			config:      RESTClientConfig{Timeout: 0},
			wantTimeout: 10 * time.Second,
		},
		{
			name:        "custom timeout",
			config:      RESTClientConfig{Timeout: 3 * time.Second},
			wantTimeout: 3 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := NewRESTClientWithConfig("http://localhost:8123", "token", tt.config)

			if client.httpClient.Timeout != tt.wantTimeout {
				t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, tt.wantTimeout)
			}
		})
	}
}

func TestRESTClient_GetStates(t *testing.T) {
	t.Parallel()

	entities := []Entity{
		{EntityID: "light.kitchen", State: "on", Attributes: map[string]any{"friendly_name": "Kitchen Lights"}},
		{EntityID: "switch.fan", State: "off", Attributes: map[string]any{"friendly_name": "Bedroom Fan"}},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/states" {
			t.Errorf("path = %q, want /api/states", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q, want Bearer secret", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entities)
	}))
	defer server.Close()

	client := NewRESTClient(server.URL, "secret")
	got, err := client.GetStates(context.Background())
	if err != nil {
		t.Fatalf("GetStates() error = %v", err)
	}

	if diff := cmp.Diff(entities, got); diff != "" {
		t.Errorf("GetStates() mismatch (-want +got):\n%s", diff)
	}
}

func TestRESTClient_GetState(t *testing.T) {
	t.Parallel()

	entity := Entity{EntityID: "climate.living_room", State: "heat", Attributes: map[string]any{
		"friendly_name":       "Living Room Thermostat",
		"current_temperature": 20.5,
	}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/states/climate.living_room" {
			t.Errorf("path = %q, want /api/states/climate.living_room", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entity)
	}))
	defer server.Close()

	client := NewRESTClient(server.URL, "secret")
	got, err := client.GetState(context.Background(), "climate.living_room")
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}

	if diff := cmp.Diff(&entity, got); diff != "" {
		t.Errorf("GetState() mismatch (-want +got):\n%s", diff)
	}
}

func TestRESTClient_CallService(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := NewRESTClient(server.URL, "secret")
	err := client.CallService(context.Background(), "light", "turn_on", map[string]any{
		"entity_id":      "light.kitchen",
		"brightness_pct": 50,
	})
	if err != nil {
		t.Fatalf("CallService() error = %v", err)
	}

	if gotPath != "/api/services/light/turn_on" {
		t.Errorf("path = %q, want /api/services/light/turn_on", gotPath)
	}
	want := map[string]any{"entity_id": "light.kitchen", "brightness_pct": float64(50)}
	if diff := cmp.Diff(want, gotBody); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestRESTClient_ErrorTaxonomy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		checkErr   func(t *testing.T, err error)
	}{
		{
			name:       "401 maps to AuthError",
			statusCode: http.StatusUnauthorized,
			checkErr: func(t *testing.T, err error) {
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("error = %T, want *AuthError", err)
				}
				if authErr.StatusCode != http.StatusUnauthorized {
					t.Errorf("StatusCode = %d, want 401", authErr.StatusCode)
				}
			},
		},
		{
			name:       "403 maps to AuthError",
			statusCode: http.StatusForbidden,
			checkErr: func(t *testing.T, err error) {
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("error = %T, want *AuthError", err)
				}
			},
		},
		{
			name:       "500 maps to UpstreamError",
			statusCode: http.StatusInternalServerError,
			checkErr: func(t *testing.T, err error) {
				var upstreamErr *UpstreamError
				if !errors.As(err, &upstreamErr) {
					t.Fatalf("error = %T, want *UpstreamError", err)
				}
				if upstreamErr.StatusCode != http.StatusInternalServerError {
					t.Errorf("StatusCode = %d, want 500", upstreamErr.StatusCode)
				}
			},
		},
		{
			name:       "404 maps to UpstreamError",
			statusCode: http.StatusNotFound,
			checkErr: func(t *testing.T, err error) {
				var upstreamErr *UpstreamError
				if !errors.As(err, &upstreamErr) {
					t.Fatalf("error = %T, want *UpstreamError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client := NewRESTClient(server.URL, "secret")
			_, err := client.Get(context.Background(), "/api/states")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			tt.checkErr(t, err)
		})
	}
}

func TestRESTClient_ConnectivityError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close() // refuse all connections

	client := NewRESTClient(server.URL, "secret")
	_, err := client.Get(context.Background(), "/api/")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var connErr *ConnectivityError
	if !errors.As(err, &connErr) {
		t.Fatalf("error = %T, want *ConnectivityError", err)
	}
}

func TestRESTClient_TimeoutError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewRESTClientWithConfig(server.URL, "secret", RESTClientConfig{Timeout: 50 * time.Millisecond})
	_, err := client.Get(context.Background(), "/api/")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("error = %T, want *TimeoutError", err)
	}
}
