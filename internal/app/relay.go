package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-api-client/internal/config"
	"github.com/samvad-hq/samvad-api-client/internal/history"
	"github.com/samvad-hq/samvad-api-client/internal/logger"
	"github.com/samvad-hq/samvad-api-client/internal/poller"
	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
	"github.com/samvad-hq/samvad-api-client/pkg/publishers"
	"github.com/samvad-hq/samvad-api-client/pkg/restclient"
)

// Relay represents the polling runtime. It executes the declared polls on
// an interval, journals every dispatched call, and fans decoded results
// out to the configured publishers. It also handles history store
// initialization and cleanup.
type Relay struct {
	cfg          *config.Config
	polls        []poller.Poll
	fanout       *publishers.Fanout
	pollService  *poller.Service
	pollInterval time.Duration
	log          logger.Logger
	store        history.Store
}

// NewRelay builds a relay runtime from config files.
func NewRelay(ctx context.Context, cfg *config.Config, log logger.Logger) (*Relay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.HostURL == "" {
		return nil, fmt.Errorf("host_url is not configured")
	}

	endpointReg, err := restclient.LoadRegistry(cfg.EndpointsFile)
	if err != nil {
		return nil, fmt.Errorf("load endpoints registry: %w", err)
	}
	endpointList := endpointReg.All()
	endpointNames := make([]string, 0, len(endpointList))
	for _, ep := range endpointList {
		endpointNames = append(endpointNames, ep.Name)
	}
	log.InfoObj("endpoints registry loaded", "endpoints_meta", map[string]any{
		"count": len(endpointNames),
		"names": endpointNames,
	})

	transport := httpclient.NewRestyClient(cfg.RequestTimeout)
	client, err := restclient.NewWithRegistry(cfg.HostURL, endpointReg, restclient.ResponseFormat(cfg.ResponseFormat), transport, log)
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	polls, err := poller.LoadPolls(cfg.PollsFile)
	if err != nil {
		return nil, fmt.Errorf("load polls: %w", err)
	}
	pollNames := make([]string, 0, len(polls))
	for _, p := range polls {
		pollNames = append(pollNames, p.Name)
	}
	log.InfoObj("polls loaded", "polls_meta", map[string]any{
		"count": len(pollNames),
		"names": pollNames,
	})

	storeOpts := history.Options{
		RecordTTL:       cfg.HistoryTTL,
		CleanupInterval: cfg.HistoryCleanupInterval,
	}
	store, err := history.NewStore(cfg.HistoryType, cfg.HistoryPath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init history store: %w", err)
	}
	log.InfoObj("history store initialized", "history_config", map[string]any{
		"type":                     cfg.HistoryType,
		"path":                     cfg.HistoryPath,
		"record_ttl_seconds":       int(cfg.HistoryTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.HistoryCleanupInterval.Seconds()),
	})

	pollService := poller.NewService(client, fanout, store, log)

	return &Relay{
		cfg:          cfg,
		polls:        polls,
		fanout:       fanout,
		pollService:  pollService,
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the poll loop until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.pollService == nil {
		return fmt.Errorf("relay is not initialized")
	}
	defer r.closeStore()
	polls := poller.Enabled(r.polls)
	if len(polls) == 0 {
		r.log.WarnObj("no polls enabled; relay idle", "polls_file", r.cfg.PollsFile)
		<-ctx.Done()
		return ctx.Err()
	}

	r.log.InfoObj("relay loop starting", "relay_state", map[string]any{
		"polls_count":      len(polls),
		"publishers_count": r.fanout.Size(),
		"poll_interval":    r.pollInterval.String(),
	})

	if err := r.runOnce(ctx, polls); err != nil {
		r.log.ErrorObj("initial sweep failed", "error", err)
	}

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("relay loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := r.runOnce(ctx, polls); err != nil {
				r.log.ErrorObj("scheduled sweep failed", "error", err)
			}
		}
	}
}

// runOnce performs a single sweep across all enabled polls.
func (r *Relay) runOnce(ctx context.Context, polls []poller.Poll) error {
	start := time.Now()
	r.log.InfoObj("sweep started", "sweep_meta", map[string]any{
		"polls_count": len(polls),
		"started_at":  start.UTC(),
	})
	if err := r.pollService.Run(ctx, polls); err != nil {
		return err
	}
	r.log.InfoObj("sweep completed", "sweep_meta", map[string]any{
		"polls_count": len(polls),
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	return nil
}

// closeStore safely closes the history backend, logging any errors encountered.
func (r *Relay) closeStore() {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("history store close failed", "error", err)
	}
}
