package monitoring

import (
	"errors"
	"time"

	"github.com/getsentry/sentry-go"

	coremon "github.com/kilianp07/fleetplan/core/monitoring"
	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/planner"
)

// Config defines settings for Sentry error monitoring.
type Config struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
	Release          string  `json:"release"`

	beforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event
}

// NewSentryMonitor initializes a Sentry client for planning runs and returns
// a Monitor implementation. An empty DSN yields a NopMonitor.
func NewSentryMonitor(cfg Config) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Release:          cfg.Release,
		BeforeSend:       cfg.beforeSend,
	})
	if err != nil {
		return nil, err
	}
	scope := sentry.NewScope()
	scope.SetTag("service", "fleetplan")
	return &sentryMonitor{hub: sentry.NewHub(client, scope)}, nil
}

type sentryMonitor struct {
	hub *sentry.Hub
}

// CaptureException reports err with tags. Planning outcomes are grouped by
// stage and error kind: an infeasible model is a warning carrying the solver
// status, a schema error carries the offending table and key.
func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	s.hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		kind := "error"
		var infeasible *planner.InfeasibleModelError
		var schema *model.SchemaError
		switch {
		case errors.As(err, &infeasible):
			kind = "infeasible"
			scope.SetLevel(sentry.LevelWarning)
			scope.SetTag("solver_status", infeasible.Status.String())
		case errors.As(err, &schema):
			kind = "schema"
			scope.SetContext("schema", sentry.Context{
				"table":  schema.Table,
				"key":    schema.Key,
				"reason": schema.Reason,
			})
		}
		scope.SetTag("error_kind", kind)
		if stage, ok := tags["stage"]; ok {
			scope.SetFingerprint([]string{stage, kind})
		}
		s.hub.CaptureException(err)
	})
}

func (s *sentryMonitor) Recover() {
	if r := recover(); r != nil {
		s.hub.Recover(r)
		s.hub.Flush(2 * time.Second)
		panic(r)
	}
}

func (s *sentryMonitor) Flush(timeout time.Duration) { s.hub.Flush(timeout) }
