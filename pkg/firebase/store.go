// Package firebase stores the signup record in a Firebase Realtime Database.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	firebaseadmin "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
	"github.com/jakechorley/cup-volunteers/pkg/db"
)

const maxErrorBody = 4 << 10

// APIError is a non-2xx response from the database REST endpoint
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("firebase returned %d: %s", e.Status, e.Message)
}

// Config configures a Store
type Config struct {
	DatabaseURL     string // e.g. https://<project>-default-rtdb.firebaseio.com
	RecordKey       string
	CredentialsFile string        // service account JSON; uses the Admin SDK and ignores Secret
	Secret          string        // legacy database secret sent as ?auth=
	Timeout         time.Duration // per request, zero for none
	HTTPClient      *http.Client  // REST client for the secret and public modes
}

// recordRef reads and replaces one database node. *db.Ref from the Admin SDK satisfies it.
type recordRef interface {
	Get(ctx context.Context, v interface{}) error
	Set(ctx context.Context, v interface{}) error
}

// Store reads and overwrites one JSON node
type Store struct {
	ref     recordRef
	timeout time.Duration
}

var _ db.RecordStore = (*Store)(nil)

// NewStore builds a store. A service account goes through the Admin SDK; without one the
// node is reached over REST with the legacy secret or, failing that, unauthenticated.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	base, err := url.Parse(strings.TrimRight(cfg.DatabaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid firebase database url %q", cfg.DatabaseURL)
	}
	key := strings.Trim(cfg.RecordKey, "/")
	if key == "" {
		return nil, fmt.Errorf("firebase record key is required")
	}

	if cfg.CredentialsFile != "" {
		ref, err := adminRef(ctx, base.String(), key, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return newStoreWithRef(ref, cfg.Timeout), nil
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	ref := &restRef{
		endpoint: base.String() + "/" + key + ".json",
		secret:   cfg.Secret,
		client:   client,
	}
	return newStoreWithRef(ref, cfg.Timeout), nil
}

func newStoreWithRef(ref recordRef, timeout time.Duration) *Store {
	return &Store{ref: ref, timeout: timeout}
}

// adminRef opens the database with the Admin SDK using a service account
func adminRef(ctx context.Context, databaseURL, key, credentialsFile string) (recordRef, error) {
	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, fmt.Errorf("failed to read firebase credentials: %w", err)
	}

	app, err := firebaseadmin.NewApp(ctx,
		&firebaseadmin.Config{DatabaseURL: databaseURL},
		option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase database client: %w", err)
	}

	return client.NewRef(key), nil
}

// Load fetches the record. A JSON null node means nothing has been stored yet.
func (s *Store) Load(ctx context.Context) (*model.SignupRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rec *model.SignupRecord
	if err := s.ref.Get(ctx, &rec); err != nil {
		return nil, fmt.Errorf("failed to load signup record: %w", err)
	}

	return rec, nil
}

// Save replaces the whole node with record
func (s *Store) Save(ctx context.Context, record model.SignupRecord) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.ref.Set(ctx, record.Normalize()); err != nil {
		return fmt.Errorf("failed to save signup record: %w", err)
	}

	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return ctx, func() {}
}

// restRef talks to {databaseURL}/{key}.json directly
type restRef struct {
	endpoint string
	secret   string
	client   *http.Client
}

func (r *restRef) Get(ctx context.Context, v interface{}) error {
	body, err := r.do(ctx, http.MethodGet, nil)
	if err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		trimmed = []byte("null")
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("failed to decode signup record: %w", err)
	}
	return nil
}

func (r *restRef) Set(ctx context.Context, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode signup record: %w", err)
	}

	_, err = r.do(ctx, http.MethodPut, payload)
	return err
}

func (r *restRef) do(ctx context.Context, method string, payload []byte) ([]byte, error) {
	endpoint := r.endpoint
	if r.secret != "" {
		endpoint += "?auth=" + url.QueryEscape(r.secret)
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(msg)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

// errorMessage extracts {"error": "..."} bodies, falling back to the raw text
func errorMessage(body []byte) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	return strings.TrimSpace(string(body))
}
