package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Severity levels for alerts
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Alert represents an alert message
type Alert struct {
	Title     string
	Message   string
	Severity  Severity
	Timestamp time.Time
	Metadata  map[string]interface{}
}

// Alerter defines the interface for sending alerts
type Alerter interface {
	Send(ctx context.Context, alert Alert) error
}

// Manager manages multiple alert channels
type Manager struct {
	alerters []Alerter
}

// NewManager creates a new alert manager
func NewManager(alerters ...Alerter) *Manager {
	return &Manager{
		alerters: alerters,
	}
}

// Send sends an alert to all configured alerters
func (m *Manager) Send(ctx context.Context, alert Alert) error {
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now()
	}

	var lastErr error
	for _, alerter := range m.alerters {
		if err := alerter.Send(ctx, alert); err != nil {
			log.Error().
				Err(err).
				Str("title", alert.Title).
				Msg("Failed to send alert")
			lastErr = err
		}
	}

	return lastErr
}

// SendCritical is a convenience method for sending critical alerts
func (m *Manager) SendCritical(ctx context.Context, title, message string, metadata map[string]interface{}) error {
	return m.Send(ctx, Alert{
		Title:    title,
		Message:  message,
		Severity: SeverityCritical,
		Metadata: metadata,
	})
}

// SendWarning is a convenience method for sending warning alerts
func (m *Manager) SendWarning(ctx context.Context, title, message string, metadata map[string]interface{}) error {
	return m.Send(ctx, Alert{
		Title:    title,
		Message:  message,
		Severity: SeverityWarning,
		Metadata: metadata,
	})
}

// SendInfo is a convenience method for sending info alerts
func (m *Manager) SendInfo(ctx context.Context, title, message string, metadata map[string]interface{}) error {
	return m.Send(ctx, Alert{
		Title:    title,
		Message:  message,
		Severity: SeverityInfo,
		Metadata: metadata,
	})
}

// LogAlerter logs alerts using zerolog
type LogAlerter struct{}

// NewLogAlerter creates a new log-based alerter
func NewLogAlerter() *LogAlerter {
	return &LogAlerter{}
}

// Send sends an alert by logging it
func (l *LogAlerter) Send(ctx context.Context, alert Alert) error {
	event := log.Log()

	// Set log level based on severity
	switch alert.Severity {
	case SeverityCritical:
		event = log.Error()
	case SeverityWarning:
		event = log.Warn()
	case SeverityInfo:
		event = log.Info()
	}

	// Add metadata fields
	if alert.Metadata != nil {
		for key, value := range alert.Metadata {
			event = event.Interface(key, value)
		}
	}

	event.
		Str("alert_title", alert.Title).
		Str("alert_severity", string(alert.Severity)).
		Time("alert_time", alert.Timestamp).
		Msg(fmt.Sprintf("ðŸš¨ ALERT: %s", alert.Message))

	return nil
}

// ConsoleAlerter prints alerts to console with prominent formatting
type ConsoleAlerter struct{}

// NewConsoleAlerter creates a new console-based alerter
func NewConsoleAlerter() *ConsoleAlerter {
	return &ConsoleAlerter{}
}

// Send sends an alert by printing to console
func (c *ConsoleAlerter) Send(ctx context.Context, alert Alert) error {
	banner := ""
	switch alert.Severity {
	case SeverityCritical:
		banner = "ðŸš¨ðŸš¨ðŸš¨ CRITICAL ALERT ðŸš¨ðŸš¨ðŸš¨"
	case SeverityWarning:
		banner = "âš ï¸  WARNING ALERT âš ï¸"
	case SeverityInfo:
		banner = "â„¹ï¸  INFO ALERT â„¹ï¸"
	}

	fmt.Println()
	fmt.Println("========================================")
	fmt.Println(banner)
	fmt.Println("========================================")
	fmt.Printf("Title: %s\n", alert.Title)
	fmt.Printf("Message: %s\n", alert.Message)
	fmt.Printf("Severity: %s\n", alert.Severity)
	fmt.Printf("Time: %s\n", alert.Timestamp.Format(time.RFC3339))

	if alert.Metadata != nil && len(alert.Metadata) > 0 {
		fmt.Println("Metadata:")
		for key, value := range alert.Metadata {
			fmt.Printf("  - %s: %v\n", key, value)
		}
	}

	fmt.Println("========================================")
	fmt.Println()

	return nil
}

// Default global alert manager (can be replaced with custom configuration)
var defaultManager *Manager

func init() {
	// Initialize with log and console alerters by default
	defaultManager = NewManager(
		NewLogAlerter(),
		NewConsoleAlerter(),
	)
}

// GetDefaultManager returns the default alert manager
func GetDefaultManager() *Manager {
	return defaultManager
}

// SetDefaultManager sets the default alert manager
func SetDefaultManager(manager *Manager) {
	defaultManager = manager
}

// Helper functions for common alerts

// AlertPositionOpened sends an alert when a trader enters a new position.
func AlertPositionOpened(ctx context.Context, m *Manager, symbol string, quantity, price float64) {
	m.SendInfo(ctx, "Position Opened", fmt.Sprintf(
		"Opened %s position: %.6f @ %.2f", symbol, quantity, price,
	), map[string]interface{}{
		"symbol":   symbol,
		"quantity": quantity,
		"price":    price,
	})
}

// AlertPositionClosed sends an alert when a trader exits a position, flagged
// as a warning when the realised result was a loss.
func AlertPositionClosed(ctx context.Context, m *Manager, symbol string, realisedPnL float64) {
	severity := SeverityInfo
	if realisedPnL < 0 {
		severity = SeverityWarning
	}
	m.Send(ctx, Alert{
		Title:    "Position Closed",
		Message:  fmt.Sprintf("Closed %s position, realised P&L: %.2f", symbol, realisedPnL),
		Severity: severity,
		Metadata: map[string]interface{}{
			"symbol":       symbol,
			"realised_pnl": realisedPnL,
		},
	})
}

// AlertForceExit sends an alert when a position is closed by a forced exit
// rather than a strategy-generated signal (feed loss, operator command).
func AlertForceExit(ctx context.Context, m *Manager, symbol, reason string) {
	m.SendWarning(ctx, "Position Force-Exited", fmt.Sprintf(
		"%s position force-exited: %s", symbol, reason,
	), map[string]interface{}{
		"symbol": symbol,
		"reason": reason,
	})
}

// AlertSessionTerminated sends an alert when a trading session is terminated,
// including the final cross-asset summary text.
func AlertSessionTerminated(ctx context.Context, m *Manager, reason, summary string) {
	m.SendCritical(ctx, "Trading Session Terminated", fmt.Sprintf(
		"Session terminated: %s\n\n%s", reason, summary,
	), map[string]interface{}{
		"reason": reason,
	})
}

// AlertConnectionError sends an alert for exchange connection issues
func AlertConnectionError(ctx context.Context, m *Manager, exchange string, err error) {
	m.SendCritical(ctx, "Exchange Connection Error", fmt.Sprintf(
		"Lost connection to %s: %v", exchange, err,
	), map[string]interface{}{
		"exchange": exchange,
		"error":    err.Error(),
	})
}
