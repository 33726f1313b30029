package main

import (
	"github.com/carbonwatch/carbonwatch/internal/alert"
	"github.com/carbonwatch/carbonwatch/internal/cache"
	"github.com/carbonwatch/carbonwatch/internal/co2signal"
	"github.com/carbonwatch/carbonwatch/internal/endpoint"
	"github.com/carbonwatch/carbonwatch/internal/refresh"
	"github.com/carbonwatch/carbonwatch/internal/store"
)

// app is the set of components that both of server mode and oneshot mode use.
type app struct {
	Client    *co2signal.Client
	Cache     *cache.Cache
	Metrics   *endpoint.Metrics
	Scheduler *refresh.Scheduler
}

func (cmd *CarbonwatchCommand) newApp(s *store.Store) (*app, error) {
	client, err := co2signal.New(cmd.Config.ClientConfig())
	if err != nil {
		return nil, err
	}

	alertConfig := cmd.Config.AlertConfig()

	hooks, err := alert.NewWebhookSet(cmd.Config.AlertURLs, alertConfig, s)
	if err != nil {
		return nil, err
	}

	c := cache.New()
	m := endpoint.NewMetrics(client.Target())
	s.OnRecord = append(s.OnRecord, m.ObserveRecord)

	sched, err := refresh.New(refresh.Config{
		Fetcher:  client,
		Cache:    c,
		Alert:    alertConfig,
		Schedule: cmd.Schedule,
		Reporter: s,
		Observers: []refresh.Observer{
			m,
			hooks,
		},
	})
	if err != nil {
		return nil, err
	}

	return &app{
		Client:    client,
		Cache:     c,
		Metrics:   m,
		Scheduler: sched,
	}, nil
}

var (
	_ refresh.Observer = (*alert.WebhookSet)(nil)
	_ refresh.Observer = (*endpoint.Metrics)(nil)
	_ endpoint.Store   = (*store.Store)(nil)
)
