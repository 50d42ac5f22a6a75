package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/zombiz/blitz/internal/container"
	"github.com/zombiz/blitz/internal/errors"
	"github.com/zombiz/blitz/internal/model"
	"github.com/zombiz/blitz/internal/ratelimit"
)

// RemoteStore implements Store against the logger's HTTP data server.
// The wire format is plain JSON; see internal/server for the other end.
type RemoteStore struct {
	baseURL  string
	apiToken string
	client   *http.Client
	limiter  *ratelimit.Limiter
}

// QueryRequest is the body of a POST /api/query call
type QueryRequest struct {
	Model  string `json:"model"`
	Filter Filter `json:"filter,omitempty"`
}

// QueryResponse is the body of a successful query
type QueryResponse struct {
	Model    string         `json:"model"`
	Records  []model.Record `json:"records"`
	Metadata struct {
		Source    string            `json:"source"`
		Model     string            `json:"model"`
		Units     map[string]string `json:"units,omitempty"`
		CreatedAt time.Time         `json:"createdAt"`
	} `json:"metadata"`
}

// UpsertRequest is the body of a POST /api/upsert call
type UpsertRequest struct {
	Model  string       `json:"model"`
	Record model.Record `json:"record"`
}

// ErrorResponse is the body of any non-2xx data server reply
type ErrorResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

// NewRemoteStore creates a new RemoteStore instance
func NewRemoteStore(baseURL, apiToken string) *RemoteStore {
	return &RemoteStore{
		baseURL:  baseURL,
		apiToken: apiToken,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// NewRemoteStoreWithLimit creates a RemoteStore that throttles requests
// to the given rate, so a polling UI cannot flood the logger
func NewRemoteStoreWithLimit(baseURL, apiToken string, requestsPerSecond int) *RemoteStore {
	s := NewRemoteStore(baseURL, apiToken)
	s.limiter = ratelimit.New("remote-store", requestsPerSecond)
	return s
}

// Connect verifies the data server is reachable
func (c *RemoteStore) Connect(ctx context.Context) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return errors.NewConnectionError("connect", c.baseURL, err)
	}
	u.Path = path.Join(u.Path, "api", "ping")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.NewConnectionError("connect", c.baseURL, err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.NewConnectionError("connect", c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.NewConnectionError("connect", c.baseURL,
			fmt.Errorf("ping returned status %d", resp.StatusCode))
	}
	return nil
}

// Query sends the filter to the data server and wraps the reply in a
// container
func (c *RemoteStore) Query(ctx context.Context, schema model.Schema, filter Filter) (*container.Container, error) {
	if err := validateFilter(schema, filter); err != nil {
		return nil, err
	}

	body, status, err := c.post(ctx, "query", QueryRequest{Model: schema.Name, Filter: filter})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, queryFailure(schema.Name, status, body, c.baseURL)
	}

	var result QueryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.WrapQueryError(schema.Name, "malformed server response", err)
	}

	records := make([]model.Record, len(result.Records))
	for i, rec := range result.Records {
		records[i] = schema.Normalize(rec)
	}
	return container.New(records, container.Metadata{
		Source:    result.Metadata.Source,
		Model:     result.Metadata.Model,
		Units:     result.Metadata.Units,
		CreatedAt: result.Metadata.CreatedAt,
	}), nil
}

// Upsert validates the record locally, then sends it to the data server
func (c *RemoteStore) Upsert(ctx context.Context, schema model.Schema, rec model.Record) error {
	if err := schema.Validate(rec); err != nil {
		return err
	}

	body, status, err := c.post(ctx, "upsert", UpsertRequest{Model: schema.Name, Record: rec})
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var errResp ErrorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && len(errResp.Violations) > 0 {
			return errors.NewValidationError(schema.Name, errResp.Violations)
		}
		return errors.NewValidationError(schema.Name, []string{serverMessage(body, status)})
	default:
		return errors.NewConnectionError("upsert", c.baseURL,
			fmt.Errorf("server returned status %d", status))
	}
}

// Close is a no-op for the HTTP client
func (c *RemoteStore) Close() error {
	return nil
}

func (c *RemoteStore) post(ctx context.Context, endpoint string, payload any) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, errors.NewConnectionError(endpoint, c.baseURL, err)
		}
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, 0, errors.NewConnectionError(endpoint, c.baseURL, err)
	}
	u.Path = path.Join(u.Path, "api", endpoint)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, errors.NewConnectionError(endpoint, c.baseURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, errors.NewConnectionError(endpoint, c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, 0, errors.NewConnectionError(endpoint, c.baseURL, err)
	}
	return buf.Bytes(), resp.StatusCode, nil
}

func (c *RemoteStore) authorize(req *http.Request) {
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
}

func queryFailure(modelName string, status int, body []byte, target string) error {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		return errors.NewQueryError(modelName, serverMessage(body, status))
	default:
		return errors.NewConnectionError("query", target,
			fmt.Errorf("server returned status %d", status))
	}
}

func serverMessage(body []byte, status int) string {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	return fmt.Sprintf("request failed with status %d", status)
}
