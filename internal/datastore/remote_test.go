package datastore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombiz/blitz/internal/errors"
	"github.com/zombiz/blitz/internal/model"
)

func TestRemoteStoreQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/query" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer testtoken" {
			t.Errorf("missing bearer token, got %q", got)
		}

		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Model != "Reading" {
			t.Errorf("unexpected model %s", req.Model)
		}

		resp := QueryResponse{Model: "Reading"}
		resp.Records = []model.Record{
			{"id": 1, "sessionId": 1, "timeLogged": 1000, "categoryId": 2, "value": 0.5},
		}
		resp.Metadata.Source = "sqlite:server.db"
		resp.Metadata.Model = "Reading"
		resp.Metadata.CreatedAt = time.Unix(1373803527, 0).UTC()
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	client := NewRemoteStore(ts.URL, "testtoken")
	require.NoError(t, client.Connect(context.Background()))

	result, err := client.Query(context.Background(), model.ReadingSchema, Filter{"sessionId": int64(1)})
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())

	// JSON numbers must come back normalized to their schema types
	got := result.Record(0)
	assert.Equal(t, int64(1), got["sessionId"])
	assert.Equal(t, 0.5, got["value"])
	assert.Equal(t, "sqlite:server.db", result.Meta().Source)
}

func TestRemoteStoreConnect(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/ping" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	assert.NoError(t, NewRemoteStore(ts.URL, "").Connect(context.Background()))
}

func TestRemoteStoreConnectUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // shut down before use

	err := NewRemoteStore(ts.URL, "").Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsConnectionError(err))
}

func TestRemoteStoreQueryServerRejects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: `unknown field "bogus"`})
	}))
	defer ts.Close()

	// filter passes local validation but the server still rejects it
	_, err := NewRemoteStore(ts.URL, "").Query(context.Background(), model.ReadingSchema, Filter{"sessionId": int64(1)})
	require.Error(t, err)
	assert.True(t, errors.IsQueryError(err))
	assert.Contains(t, err.Error(), `unknown field "bogus"`)
}

func TestRemoteStoreQueryMalformedFilterFailsLocally(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	_, err := NewRemoteStore(ts.URL, "").Query(context.Background(), model.ReadingSchema, Filter{"bogus": 1})
	require.Error(t, err)
	assert.True(t, errors.IsQueryError(err))
	assert.False(t, called, "malformed filters must not reach the server")
}

func TestRemoteStoreUpsertValidationError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(ErrorResponse{
			Error:      "validation failed",
			Violations: []string{"variableName is required"},
		})
	}))
	defer ts.Close()

	client := NewRemoteStore(ts.URL, "")
	rec := model.Category{VariableName: "Brake"}.ToRecord()
	err := client.Upsert(context.Background(), model.CategorySchema, rec)
	require.Error(t, err)

	valErr := errors.AsValidationError(err)
	require.NotNil(t, valErr)
	assert.Equal(t, []string{"variableName is required"}, valErr.Violations)
}

func TestRemoteStoreUpsertServerDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewRemoteStore(ts.URL, "")
	rec := model.Category{VariableName: "Brake"}.ToRecord()
	err := client.Upsert(context.Background(), model.CategorySchema, rec)
	require.Error(t, err)
	assert.True(t, errors.IsConnectionError(err))
}

func TestRemoteStoreRateLimit(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_ = json.NewEncoder(w).Encode(QueryResponse{Model: "Session"})
	}))
	defer ts.Close()

	client := NewRemoteStoreWithLimit(ts.URL, "", 100)
	for i := 0; i < 3; i++ {
		_, err := client.Query(context.Background(), model.SessionSchema, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, hits)
}

func TestRemoteStoreCloseIdempotent(t *testing.T) {
	client := NewRemoteStore("http://127.0.0.1:0", "")
	assert.NoError(t, client.Close())
	assert.NoError(t, client.Close())
}
