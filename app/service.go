package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/fleetplan/config"
	"github.com/kilianp07/fleetplan/core/history"
	coremetrics "github.com/kilianp07/fleetplan/core/metrics"
	coremon "github.com/kilianp07/fleetplan/core/monitoring"
	"github.com/kilianp07/fleetplan/core/notify"
	"github.com/kilianp07/fleetplan/core/planner"
	"github.com/kilianp07/fleetplan/core/solver"
	"github.com/kilianp07/fleetplan/infra/loader"
	"github.com/kilianp07/fleetplan/infra/logger"
	"github.com/kilianp07/fleetplan/infra/metrics"
	"github.com/kilianp07/fleetplan/infra/monitoring"
	"github.com/kilianp07/fleetplan/infra/mqtt"
	_ "github.com/kilianp07/fleetplan/infra/solver/gonum"
	"github.com/kilianp07/fleetplan/internal/eventbus"
	"github.com/kilianp07/fleetplan/pkg/export"
)

// StageEvent reports the progress of a run.
type StageEvent struct {
	RunID string
	Stage string
	Time  time.Time
	Err   error
}

// Service wires the planning pipeline: loading, planning, reporting,
// history, notification and metrics.
type Service struct {
	cfg       *config.Config
	loader    loader.Loader
	planner   *planner.Planner
	sink      coremetrics.MetricsSink
	history   history.Store
	publisher notify.Publisher
	events    *eventbus.Bus[StageEvent]
	log       logger.Logger
	newRunID  func() string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	ld, err := loader.New(cfg.Input, logger.New("loader"))
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if _, err := solver.New(cfg.Solver); err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	p, err := planner.New(cfg.Planner, logger.New("planner"), sink)
	if err != nil {
		return nil, err
	}
	store, err := history.New(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	var pub notify.Publisher = notify.NopPublisher{}
	if cfg.MQTT.Enabled() {
		client, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		pub = client
	}

	return &Service{
		cfg:       cfg,
		loader:    ld,
		planner:   p,
		sink:      sink,
		history:   store,
		publisher: pub,
		events:    eventbus.New[StageEvent](0),
		log:       logg,
		newRunID:  uuid.NewString,
	}, nil
}

// Subscribe returns a channel receiving the stage events of every run.
func (s *Service) Subscribe() <-chan StageEvent { return s.events.Subscribe() }

// History returns the run history store.
func (s *Service) History() history.Store { return s.history }

func (s *Service) stage(runID, stage string, err error) {
	s.events.Publish(StageEvent{RunID: runID, Stage: stage, Time: time.Now(), Err: err})
	if err != nil {
		coremon.CaptureRunError(runID, stage, err)
	}
}

// Run performs one planning run and returns its result. A run that ends
// without a plan is still recorded in the history and announced.
func (s *Service) Run(ctx context.Context) (*planner.Result, error) {
	runID := s.newRunID()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr, nil); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	s.log.Infof("run %s started", runID)
	started := time.Now()

	tables, err := s.loader.Load(ctx)
	if err != nil {
		err = fmt.Errorf("load tables: %w", err)
		s.stage(runID, coremon.StageLoad, err)
		s.finish(ctx, started, &planner.Result{RunID: runID, Status: solver.StatusNotSolved}, err)
		return nil, err
	}
	s.stage(runID, coremon.StageLoad, nil)

	slv, err := solver.New(s.cfg.Solver)
	if err != nil {
		s.stage(runID, coremon.StageBuild, err)
		s.finish(ctx, started, &planner.Result{RunID: runID, Status: solver.StatusNotSolved}, err)
		return nil, err
	}
	res, err := s.planner.Plan(runID, tables, slv)
	if err != nil {
		s.stage(runID, failedStage(res, err), err)
		s.finish(ctx, started, res, err)
		return res, err
	}
	s.stage(runID, coremon.StageSolve, nil)

	if err := s.write(res); err != nil {
		err = fmt.Errorf("write report: %w", err)
		s.stage(runID, coremon.StageWrite, err)
		s.finish(ctx, started, res, err)
		return res, err
	}
	s.stage(runID, coremon.StageWrite, nil)

	s.finish(ctx, started, res, nil)
	s.log.Infof("run %s finished with %s in %s", runID, res.Status, time.Since(started).Round(time.Millisecond))
	return res, nil
}

func failedStage(res *planner.Result, err error) string {
	switch {
	case errors.Is(err, planner.ErrInfeasible):
		return coremon.StageSolve
	case res == nil || res.Status == solver.StatusNotSolved:
		return coremon.StageBuild
	default:
		return coremon.StageExtract
	}
}

func (s *Service) write(res *planner.Result) error {
	out := s.cfg.Output
	if err := export.WriteFile(out.Path, out.Format, export.NewReport(res), out.Options()); err != nil {
		return err
	}
	s.log.Infof("wrote %d records to %s", len(res.Records), out.Path)
	if out.ChartPath != "" {
		title := fmt.Sprintf("Fleet plan %s", res.RunID)
		if err := export.WriteChartFile(out.ChartPath, title, res.Summary); err != nil {
			return err
		}
	}
	return nil
}

// finish appends the run to the history and publishes its notification.
// Failures are logged and reported, never returned.
func (s *Service) finish(ctx context.Context, started time.Time, res *planner.Result, runErr error) {
	rec := s.runRecord(started, res, runErr)
	if err := s.history.Append(ctx, rec); err != nil {
		s.log.Warnf("append history: %v", err)
		s.stage(res.RunID, coremon.StageHistory, err)
	}
	n := notify.PlanNotification{
		RunID:      res.RunID,
		Status:     rec.Status,
		Objective:  res.Objective,
		Violations: len(res.Violations),
		Years:      res.Summary,
		Error:      rec.Error,
		Timestamp:  rec.Timestamp,
	}
	if err := s.publisher.PublishPlan(ctx, n); err != nil {
		s.log.Warnf("publish plan: %v", err)
		s.stage(res.RunID, coremon.StagePublish, err)
	}
}

func (s *Service) runRecord(started time.Time, res *planner.Result, runErr error) history.RunRecord {
	rec := history.RunRecord{
		RunID:       res.RunID,
		Timestamp:   started.UTC(),
		Status:      res.Status.String(),
		Objective:   res.Objective,
		StartYear:   s.planner.Config().StartYear,
		NumYears:    s.planner.Config().NumYears,
		Variables:   res.Stats.Variables(),
		Constraints: res.Stats.Constraints,
		BuildMillis: res.BuildDuration.Milliseconds(),
		SolveMillis: res.SolveDuration.Milliseconds(),
		Violations:  len(res.Violations),
		Summary:     res.Summary,
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	return rec
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.publisher.Close()
	s.events.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(2 * time.Second)
	return s.history.Close()
}
