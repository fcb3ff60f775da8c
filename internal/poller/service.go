package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/samvad-api-client/internal/domain"
	"github.com/samvad-hq/samvad-api-client/internal/history"
	"github.com/samvad-hq/samvad-api-client/internal/logger"
	"github.com/samvad-hq/samvad-api-client/pkg/publishers"
	"github.com/samvad-hq/samvad-api-client/pkg/restclient"
)

// EventSink fans a fetched result out to the configured publishers.
type EventSink interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Service executes polls through the API client, journals every call,
// and forwards decoded results downstream.
type Service struct {
	client *restclient.Client
	sink   EventSink
	store  history.Store
	log    logger.Logger
}

// NewService wires a poll runner. The sink and store may be nil when
// delivery or journaling is disabled.
func NewService(client *restclient.Client, sink EventSink, store history.Store, log logger.Logger) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		client: client,
		sink:   sink,
		store:  store,
		log:    log,
	}
}

// Run executes a sweep over all polls. Per-poll failures are collected
// and joined; one bad poll never aborts the rest of the sweep.
func (s *Service) Run(ctx context.Context, polls []Poll) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("poller service is not initialized")
	}

	if len(polls) == 0 {
		return fmt.Errorf("no polls configured")
	}

	errs := s.runAll(ctx, polls)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (s *Service) runAll(ctx context.Context, polls []Poll) []error {
	errs := make([]error, 0, len(polls))

	for _, p := range polls {
		if err := s.runPoll(ctx, p); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("poll failed", "poll_error", map[string]any{
				"poll":  p.Name,
				"error": err.Error(),
			})
		}
	}

	return errs
}

func (s *Service) runPoll(ctx context.Context, p Poll) error {
	start := time.Now()
	opts := &restclient.RequestOptions{
		ID:     p.ID,
		Filter: restclient.Filter(p.Filter),
		Extra:  p.Extra,
	}

	rec := domain.CallRecord{
		ID:        uuid.NewString(),
		Poll:      p.Name,
		Endpoint:  p.Endpoint,
		Method:    p.Method,
		StartedAt: start.UTC(),
	}

	res, err := s.client.Fetch(ctx, p.Method, p.Endpoint, opts)
	rec.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		rec.Err = err.Error()
		s.journal(rec)
		return fmt.Errorf("poll %s: %w", p.Name, err)
	}

	rec.StatusCode = res.StatusCode
	rec.URL = res.RequestURL
	s.journal(rec)

	if s.sink == nil {
		return nil
	}

	evt := publishers.NewEvent(p.Name, p.Endpoint, p.Method, res.StatusCode, payloadOf(res))
	delivered, err := s.sink.Publish(ctx, evt)
	if err != nil {
		return fmt.Errorf("publish poll %s result: %w", p.Name, err)
	}

	s.log.InfoObj("poll completed", "poll_result", map[string]any{
		"poll":      p.Name,
		"endpoint":  p.Endpoint,
		"status":    res.StatusCode,
		"published": delivered,
	})
	return nil
}

// payloadOf picks the decoded representation matching the result format.
func payloadOf(res *restclient.Result) any {
	switch res.Format {
	case restclient.FormatText:
		return res.Text
	case restclient.FormatBlob:
		return res.Blob
	default:
		return res.JSON
	}
}

func (s *Service) journal(rec domain.CallRecord) {
	if s.store == nil {
		return
	}
	if err := s.store.Append(rec); err != nil {
		s.log.WarnObj("history append failed", "history_error", map[string]any{
			"poll":  rec.Poll,
			"error": err.Error(),
		})
	}
}
