package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sourcing-cli/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertUpstreamFailureRate AlertType = "upstream_failure_rate"
	AlertAuthFailure         AlertType = "auth_failure"
	AlertAnalysisFailure     AlertType = "analysis_failure"
)

const defaultMinRequests = 5

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates a MetricsSnapshot against configured thresholds
// and sends alerts via webhook when thresholds are breached.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter creates a new Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
func (a *Alerter) Evaluate(snap *MetricsSnapshot) []Alert {
	var alerts []Alert
	now := time.Now().UTC()
	window := snap.CollectedAt.Sub(snap.WindowStart).Round(time.Second)

	minRequests := int64(a.cfg.MinRequests)
	if minRequests <= 0 {
		minRequests = defaultMinRequests
	}

	if snap.Requests >= minRequests && snap.FailRate > a.cfg.FailureRateThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertUpstreamFailureRate,
			Severity: "high",
			Message: fmt.Sprintf(
				"Backend failure rate %.1f%% exceeds threshold %.1f%% (%d failed / %d requests in last %s)",
				snap.FailRate*100, a.cfg.FailureRateThreshold*100,
				snap.Failures, snap.Requests, window,
			),
			Details: map[string]any{
				"failure_rate": snap.FailRate,
				"threshold":    a.cfg.FailureRateThreshold,
				"failed":       snap.Failures,
				"requests":     snap.Requests,
			},
			Timestamp: now,
		})
	}

	if snap.AuthFailures > 0 {
		alerts = append(alerts, Alert{
			Type:     AlertAuthFailure,
			Severity: "high",
			Message:  fmt.Sprintf("%d backend request(s) rejected as unauthorized in last %s", snap.AuthFailures, window),
			Details: map[string]any{
				"auth_failures": snap.AuthFailures,
			},
			Timestamp: now,
		})
	}

	if snap.AnalysesFailed > 0 && snap.AnalysesOK == 0 {
		alerts = append(alerts, Alert{
			Type:     AlertAnalysisFailure,
			Severity: "medium",
			Message:  fmt.Sprintf("%d supplier analyses failed with none succeeding in last %s", snap.AnalysesFailed, window),
			Details: map[string]any{
				"failed": snap.AnalysesFailed,
				"stale":  snap.AnalysesStale,
			},
			Timestamp: now,
		})
	}

	return alerts
}

// SendAlerts delivers alerts to the configured webhook URL.
// Returns the number of alerts successfully sent.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		if err := a.sendWebhook(ctx, alert); err != nil {
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity),
		)
		sent++
	}
	return sent
}

func (a *Alerter) sendWebhook(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
