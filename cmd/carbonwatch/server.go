package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/endpoint"
	"github.com/carbonwatch/carbonwatch/internal/meta"
	"github.com/carbonwatch/carbonwatch/internal/store"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
)

func (cmd *CarbonwatchCommand) reportStartLog(s *store.Store, a *app, listen string) {
	s.Report(api.Record{
		Time:    time.Now(),
		Status:  api.StatusHealthy,
		Target:  "carbonwatch:server",
		Message: "start carbonwatch server",
		Extra: map[string]interface{}{
			"url":      "http://" + listen,
			"source":   a.Client.Target(),
			"schedule": cmd.Schedule.String(),
			"alert":    cmd.Config.AlertConfig().String(),
			"version":  fmt.Sprintf("%s (%s)", meta.Version, meta.Commit),
		},
	})
}

func (cmd *CarbonwatchCommand) RunServer(ctx context.Context, s *store.Store) (exitCode int) {
	a, err := cmd.newApp(s)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: %s\n", err)
		return 2
	}

	startDebugLogger(s)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listener, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", cmd.ListenPort))
	if err != nil {
		s.ReportInternalError("endpoint", err.Error())
		return 1
	}

	if cmd.StartedAt.IsZero() {
		cmd.StartedAt = time.Now()
	}

	cmd.reportStartLog(s, a, listener.Addr().String())

	a.Scheduler.Start()

	info := endpoint.Info{
		Target:      a.Client.Target(),
		CountryCode: a.Client.CountryCode(),
		Alert:       cmd.Config.AlertConfig(),
		Schedule:    cmd.Schedule.String(),
		StartedAt:   cmd.StartedAt,
	}
	handler := endpoint.WithBasicAuth(endpoint.New(a.Cache, s, info, a.Metrics), cmd.UserInfo)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg := &sync.WaitGroup{}
	wg.Add(2)
	go func() {
		<-ctx.Done()

		go func() {
			a.Scheduler.Stop()
			wg.Done()
		}()

		if err := srv.Shutdown(context.Background()); err != nil {
			s.ReportInternalError("endpoint", err.Error())
		}
		wg.Done()
	}()

	err = srv.Serve(listener)
	if err != http.ErrServerClosed {
		s.ReportInternalError("endpoint", err.Error())
		exitCode = 1
	}
	cancel()

	wg.Wait()

	return exitCode
}
