// Package refresh drives the periodic fetch of the carbon intensity.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/alert"
	"github.com/carbonwatch/carbonwatch/internal/cache"
	"github.com/carbonwatch/carbonwatch/internal/schedule"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	"github.com/robfig/cron/v3"
)

var (
	ErrMissingFetcher = errors.New("fetcher is required")
	ErrMissingCache   = errors.New("cache is required")
)

// Fetcher fetches the latest carbon intensity from a remote service.
type Fetcher interface {
	FetchIntensity(ctx context.Context) (float64, error)

	// Target returns the name of the remote service to use in records, like "co2signal:DE".
	Target() string
}

// Observer receives the result of each successful refresh.
type Observer interface {
	Update(ctx context.Context, intensity float64, alertActive bool)
}

// ObserverFunc is a function that implements Observer.
type ObserverFunc func(ctx context.Context, intensity float64, alertActive bool)

func (f ObserverFunc) Update(ctx context.Context, intensity float64, alertActive bool) {
	f(ctx, intensity, alertActive)
}

type Reporter interface {
	Report(r api.Record)
}

type Config struct {
	Fetcher   Fetcher
	Cache     *cache.Cache
	Alert     alert.Config
	Schedule  schedule.Schedule
	Reporter  Reporter
	Observers []Observer
}

// Scheduler runs refreshes by the schedule.
// At most one refresh runs at a time. A tick that comes while a refresh is running is skipped.
type Scheduler struct {
	fetcher   Fetcher
	cache     *cache.Cache
	alert     alert.Config
	schedule  schedule.Schedule
	reporter  Reporter
	observers []Observer

	cron *cron.Cron
	job  cron.Job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a Scheduler. It does not start until Start is called.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Fetcher == nil {
		return nil, ErrMissingFetcher
	}
	if cfg.Cache == nil {
		return nil, ErrMissingCache
	}
	if cfg.Schedule == nil {
		cfg.Schedule = schedule.DefaultSchedule
	}
	if cfg.Reporter == nil {
		cfg.Reporter = discardReporter{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		fetcher:   cfg.Fetcher,
		cache:     cfg.Cache,
		alert:     cfg.Alert,
		schedule:  cfg.Schedule,
		reporter:  cfg.Reporter,
		observers: cfg.Observers,
		ctx:       ctx,
		cancel:    cancel,
	}

	l := cronLogger{target: cfg.Fetcher.Target(), reporter: cfg.Reporter}
	s.cron = cron.New(cron.WithLogger(l))
	s.job = cron.NewChain(
		cron.Recover(l),
		cron.SkipIfStillRunning(l),
	).Then(cron.FuncJob(func() {
		s.Refresh(s.ctx)
	}))

	return s, nil
}

// Schedule returns the schedule of this Scheduler.
func (s *Scheduler) Schedule() schedule.Schedule {
	return s.schedule
}

// Start starts the scheduler.
// An interval schedule runs the first refresh immediately.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.cron.Schedule(s.schedule, s.job)

		if s.schedule.NeedKickWhenStart() {
			s.wg.Add(1)
			go func() {
				s.job.Run()
				s.wg.Done()
			}()
		}

		s.cron.Start()
	})
}

// Stop stops the scheduler, cancels the running refresh, and waits for it.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		stopped := s.cron.Stop()
		s.cancel()
		<-stopped.Done()
		s.wg.Wait()
	})
}

// Refresh fetches the carbon intensity once, and updates the cache and the observers if succeeded.
// The cache is kept as is if failed.
func (s *Scheduler) Refresh(ctx context.Context) error {
	rec := api.Record{
		Time:   time.Now(),
		Target: s.fetcher.Target(),
	}

	v, err := s.fetcher.FetchIntensity(ctx)
	rec.Latency = time.Since(rec.Time)

	if err != nil {
		rec.Status = errorStatus(ctx, err)
		rec.Message = err.Error()
		s.reporter.Report(rec)
		return err
	}

	active := s.alert.Evaluate(v)

	s.cache.Set(cache.Snapshot{
		Intensity: v,
		Alert:     active,
		UpdatedAt: time.Now(),
	})

	rec.Status = api.StatusHealthy
	if active {
		rec.Message = fmt.Sprintf("alert is active: %s", s.alert)
	}
	rec.Extra = map[string]interface{}{
		"carbon_intensity": v,
		"alert_active":     active,
	}
	s.reporter.Report(rec)

	for _, o := range s.observers {
		o.Update(ctx, v, active)
	}

	return nil
}

func errorStatus(ctx context.Context, err error) api.Status {
	switch {
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		return api.StatusAborted
	case errors.Is(err, api.ErrNetwork):
		return api.StatusUnknown
	default:
		return api.StatusFailure
	}
}

type discardReporter struct{}

func (discardReporter) Report(api.Record) {}
