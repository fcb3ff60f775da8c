package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/samvad-api-client/internal/config"
	"github.com/samvad-hq/samvad-api-client/internal/domain"
	"github.com/samvad-hq/samvad-api-client/internal/history"
	"github.com/samvad-hq/samvad-api-client/internal/logger"
	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
	"github.com/samvad-hq/samvad-api-client/pkg/restclient"
)

// CallOverrides carries command-line values that take precedence over the
// loaded configuration.
type CallOverrides struct {
	HostURL       string
	EndpointsFile string
	Format        string
}

// CallRuntime wires the pieces a one-shot invocation needs: the API
// client plus the call journal.
type CallRuntime struct {
	cfg    *config.Config
	client *restclient.Client
	store  history.Store
	log    logger.Logger
}

// NewCallRuntime builds a runtime for dispatching a single call.
func NewCallRuntime(cfg *config.Config, log logger.Logger, ov CallOverrides) (*CallRuntime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	host := strings.TrimSpace(ov.HostURL)
	if host == "" {
		host = cfg.HostURL
	}
	if host == "" {
		return nil, fmt.Errorf("host url is not configured (set host_url or pass --host)")
	}

	format := strings.TrimSpace(ov.Format)
	if format == "" {
		format = cfg.ResponseFormat
	}

	reg, err := LoadEndpoints(cfg, ov.EndpointsFile)
	if err != nil {
		return nil, err
	}

	transport := httpclient.NewRestyClient(cfg.RequestTimeout)
	client, err := restclient.NewWithRegistry(host, reg, restclient.ResponseFormat(format), transport, log)
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}

	store, err := OpenHistory(cfg)
	if err != nil {
		return nil, err
	}

	return &CallRuntime{
		cfg:    cfg,
		client: client,
		store:  store,
		log:    log,
	}, nil
}

// LoadEndpoints loads the endpoint registry, honoring a file override.
func LoadEndpoints(cfg *config.Config, fileOverride string) (*restclient.Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	path := strings.TrimSpace(fileOverride)
	if path == "" {
		path = cfg.EndpointsFile
	}
	reg, err := restclient.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load endpoints registry: %w", err)
	}
	return reg, nil
}

// OpenHistory opens the configured call journal.
func OpenHistory(cfg *config.Config) (history.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	store, err := history.NewStore(cfg.HistoryType, cfg.HistoryPath, history.Options{
		RecordTTL:       cfg.HistoryTTL,
		CleanupInterval: cfg.HistoryCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init history store: %w", err)
	}
	return store, nil
}

// Call dispatches one request through the client and journals the outcome.
func (rt *CallRuntime) Call(ctx context.Context, method, endpoint string, opts *restclient.RequestOptions) (*restclient.Result, error) {
	if rt == nil || rt.client == nil {
		return nil, fmt.Errorf("call runtime is not initialized")
	}

	start := time.Now()
	rec := domain.CallRecord{
		ID:        uuid.NewString(),
		Endpoint:  strings.TrimSpace(endpoint),
		Method:    strings.ToUpper(strings.TrimSpace(method)),
		StartedAt: start.UTC(),
	}

	res, err := rt.client.Fetch(ctx, method, endpoint, opts)
	rec.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		rec.Err = err.Error()
		rt.journal(rec)
		return nil, err
	}

	rec.StatusCode = res.StatusCode
	rec.URL = res.RequestURL
	rt.journal(rec)
	return res, nil
}

// Endpoints returns the loaded endpoint definitions.
func (rt *CallRuntime) Endpoints() []restclient.Endpoint {
	return rt.client.Endpoints()
}

// Format returns the response format the client decodes with.
func (rt *CallRuntime) Format() restclient.ResponseFormat {
	return rt.client.Format()
}

// Recent returns the latest journal entries, newest first.
func (rt *CallRuntime) Recent(limit int) ([]domain.CallRecord, error) {
	if rt == nil || rt.store == nil {
		return nil, nil
	}
	return rt.store.Recent(limit)
}

// Close releases the journal.
func (rt *CallRuntime) Close() {
	if rt == nil || rt.store == nil {
		return
	}
	if err := rt.store.Close(); err != nil {
		rt.log.ErrorObj("history store close failed", "error", err)
	}
}

func (rt *CallRuntime) journal(rec domain.CallRecord) {
	if rt.store == nil {
		return
	}
	if err := rt.store.Append(rec); err != nil {
		rt.log.WarnObj("history append failed", "history_error", map[string]any{
			"endpoint": rec.Endpoint,
			"error":    err.Error(),
		})
	}
}
