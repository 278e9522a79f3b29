// Package export ships completed risk assessments to an external webhook
// for audit trails and downstream dashboards.
package export

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds configuration for the result exporter
type Config struct {
	Enabled        bool          `json:"enabled"`
	BatchSize      int           `json:"batch_size"`
	ExportInterval time.Duration `json:"export_interval"`
	WebhookURL     string        `json:"webhook_url"`
	WebhookAPIKey  string        `json:"webhook_api_key,omitempty"`
}

// ResultExporter batches assessment results and posts them to a webhook.
// Batches flush when full or on the export interval tick, whichever comes
// first.
type ResultExporter struct {
	config     Config
	httpClient *http.Client

	mutex      sync.RWMutex
	batch      []interface{}
	lastExport time.Time

	exportContext context.Context
	exportCancel  context.CancelFunc
}

// NewResultExporter creates a result exporter. A disabled config yields an
// exporter whose methods are no-ops.
func NewResultExporter(config Config) *ResultExporter {
	if !config.Enabled {
		return &ResultExporter{config: config}
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.ExportInterval <= 0 {
		config.ExportInterval = time.Minute
	}

	exporter := &ResultExporter{
		config: config,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
				IdleConnTimeout: 90 * time.Second,
			},
		},
		batch: make([]interface{}, 0, config.BatchSize),
	}

	exporter.exportContext, exporter.exportCancel = context.WithCancel(context.Background())
	go exporter.periodicExport()

	logrus.Info("Result exporter initialized")
	return exporter
}

// Add queues an assessment result for export
func (e *ResultExporter) Add(result interface{}) {
	if !e.config.Enabled || result == nil {
		return
	}

	e.mutex.Lock()
	e.batch = append(e.batch, result)
	full := len(e.batch) >= e.config.BatchSize
	e.mutex.Unlock()

	if full {
		go e.flush()
	}
}

// periodicExport flushes the batch on every interval tick
func (e *ResultExporter) periodicExport() {
	ticker := time.NewTicker(e.config.ExportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.flush()
		case <-e.exportContext.Done():
			return
		}
	}
}

// flush posts the current batch to the webhook
func (e *ResultExporter) flush() {
	e.mutex.Lock()
	if len(e.batch) == 0 {
		e.mutex.Unlock()
		return
	}
	results := make([]interface{}, len(e.batch))
	copy(results, e.batch)
	e.batch = make([]interface{}, 0, e.config.BatchSize)
	e.lastExport = time.Now()
	e.mutex.Unlock()

	if err := e.postWebhook(results); err != nil {
		logrus.Errorf("Failed to export results to webhook: %v", err)
		return
	}
	logrus.Infof("Exported %d assessment results", len(results))
}

// postWebhook sends one batch to the configured endpoint
func (e *ResultExporter) postWebhook(results []interface{}) error {
	if e.config.WebhookURL == "" {
		return fmt.Errorf("webhook URL not configured")
	}

	exportData := struct {
		Results    []interface{} `json:"results"`
		ExportTime string        `json:"export_time"`
		Count      int           `json:"count"`
	}{
		Results:    results,
		ExportTime: time.Now().UTC().Format(time.RFC3339),
		Count:      len(results),
	}

	jsonData, err := json.Marshal(exportData)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, e.config.WebhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.config.WebhookAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.config.WebhookAPIKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned error status: %d", resp.StatusCode)
	}
	return nil
}

// Stop cancels the background flusher and exports any remaining results
func (e *ResultExporter) Stop() {
	if e.exportCancel != nil {
		e.exportCancel()
	}
	e.flush()
}

// Status returns the current state of the exporter
func (e *ResultExporter) Status() map[string]interface{} {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	status := map[string]interface{}{
		"enabled":         e.config.Enabled,
		"batch_size":      e.config.BatchSize,
		"export_interval": e.config.ExportInterval.String(),
		"current_batch":   len(e.batch),
	}
	if !e.lastExport.IsZero() {
		status["last_export"] = e.lastExport.Format(time.RFC3339)
	}
	return status
}
