package alert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/cwerr"
	"github.com/carbonwatch/carbonwatch/internal/meta"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
)

var (
	ErrInvalidAlertURL = errors.New("invalid alert URL")
	ErrUnsupportedURL  = errors.New("unsupported scheme")

	// WebhookTimeout is the timeout of a webhook request.
	WebhookTimeout = 30 * time.Second

	webhookClient = &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DisableKeepAlives:     true,
			ResponseHeaderTimeout: WebhookTimeout,
		},
	}
)

// Reporter receives the results of webhook calls.
type Reporter interface {
	Report(r api.Record)
}

// Event is an alert state change.
type Event struct {
	Time      time.Time
	Intensity float64
	Active    bool
	Config    Config
}

// Webhook calls an HTTP(S) URL when the alert state changes.
type Webhook struct {
	target *url.URL
}

// NewWebhook creates a Webhook from the URL string.
// Only http and https are supported.
func NewWebhook(target string) (Webhook, error) {
	u, err := url.Parse(target)
	if err != nil {
		return Webhook{}, cwerr.New(ErrInvalidAlertURL, err, "invalid alert URL")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return Webhook{}, ErrUnsupportedURL
	}
	if u.Hostname() == "" {
		return Webhook{}, cwerr.New(ErrInvalidAlertURL, nil, "missing host")
	}

	return Webhook{target: u}, nil
}

// Target returns the webhook URL.
func (w Webhook) Target() *url.URL {
	return w.target
}

// Trigger sends the Event via HTTP GET, and reports the result to r.
//
// The event is encoded in query parameters, and other query parameters in the URL are kept.
func (w Webhook) Trigger(ctx context.Context, r Reporter, ev Event) {
	qs := w.target.Query()
	qs.Set("carbonwatch_time", ev.Time.Format(time.RFC3339))
	qs.Set("carbonwatch_alert_active", strconv.FormatBool(ev.Active))
	qs.Set("carbonwatch_carbon_intensity", strconv.FormatFloat(ev.Intensity, 'f', -1, 64))
	qs.Set("carbonwatch_threshold", strconv.FormatFloat(ev.Config.Threshold, 'f', -1, 64))
	qs.Set("carbonwatch_mode", ev.Config.Mode.String())

	u := *w.target
	u.RawQuery = qs.Encode()

	rec := api.Record{
		Status: api.StatusFailure,
		Target: "alert:" + w.target.Redacted(),
	}

	ctx, cancel := context.WithTimeout(ctx, WebhookTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		rec.Time = time.Now()
		rec.Status = api.StatusUnknown
		rec.Message = err.Error()
		r.Report(rec)
		return
	}
	req.Header.Set("User-Agent", meta.UserAgent())

	rec.Time = time.Now()
	resp, err := webhookClient.Do(req)
	rec.Latency = time.Since(rec.Time)

	if err != nil {
		rec.Message = err.Error()
		if ctx.Err() != nil {
			rec.Message = "webhook timed out"
		}
	} else {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		rec.Message = fmt.Sprintf("proto=%s status=%d", resp.Proto, resp.StatusCode)
		if 200 <= resp.StatusCode && resp.StatusCode <= 299 {
			rec.Status = api.StatusHealthy
		}
	}

	r.Report(rec)
}

// WebhookSet is a set of webhooks that fire when the alert state changes.
//
// It implements refresh.Observer.
// The first observed state fires the webhooks only if it is active.
type WebhookSet struct {
	hooks    []Webhook
	config   Config
	reporter Reporter

	mu   sync.Mutex
	last *bool
}

// NewWebhookSet creates a WebhookSet from the URL strings.
func NewWebhookSet(targets []string, config Config, r Reporter) (*WebhookSet, error) {
	hooks := make([]Webhook, len(targets))
	errs := &cwerr.ListBuilder{What: ErrInvalidAlertURL}

	for i, t := range targets {
		var err error
		hooks[i], err = NewWebhook(t)
		if err != nil {
			errs.Pushf("%s: %w", t, err)
		}
	}

	if err := errs.Build(); err != nil {
		return nil, err
	}

	return &WebhookSet{
		hooks:    hooks,
		config:   config,
		reporter: r,
	}, nil
}

// Update receives the result of a successful refresh.
// This method blocks until all webhooks done, if the state changed.
//
// Update runs inside the refresh job, so a slow webhook (up to WebhookTimeout) delays the end of the refresh,
// and ticks of the schedule that fire meanwhile are skipped.
func (s *WebhookSet) Update(ctx context.Context, intensity float64, alertActive bool) {
	s.mu.Lock()
	changed := (s.last == nil && alertActive) || (s.last != nil && *s.last != alertActive)
	s.last = &alertActive
	s.mu.Unlock()

	if !changed {
		return
	}

	ev := Event{
		Time:      time.Now(),
		Intensity: intensity,
		Active:    alertActive,
		Config:    s.config,
	}

	wg := &sync.WaitGroup{}
	for _, h := range s.hooks {
		wg.Add(1)
		go func(h Webhook) {
			h.Trigger(ctx, s.reporter, ev)
			wg.Done()
		}(h)
	}
	wg.Wait()
}
