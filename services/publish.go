package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"mibig-toxins/metrics"
	"mibig-toxins/models"
	"mibig-toxins/storage"
)

const reportPrefix = "reports/"

// ErrScanRunning wird geliefert, solange bereits ein Lauf aktiv ist.
var ErrScanRunning = errors.New("scan already running")

// ScanSummary beschreibt einen abgeschlossenen und veröffentlichten Lauf.
type ScanSummary struct {
	StartedAt              time.Time      `json:"started_at"`
	FinishedAt             time.Time      `json:"finished_at"`
	File                   string         `json:"file"`
	Link                   string         `json:"link,omitempty"`
	Toxins                 []ReportRow    `json:"toxins"`
	Classified             int            `json:"classified"`
	MissingCrossReferences int            `json:"missing_cross_references"`
	InvalidCrossReferences int            `json:"invalid_cross_references"`
	Prefilter              PrefilterStats `json:"prefilter"`
}

// Publisher schreibt Reports ins Ausgabeverzeichnis und spiegelt sie optional nach S3.
type Publisher struct {
	Scanner *ScanService
	Store   storage.ObjectStore

	mu     sync.RWMutex
	latest *ScanSummary
	// verhindert parallele Läufe (Cron + API)
	running sync.Mutex
}

// NewPublisher erstellt einen Publisher; store darf nil sein.
func NewPublisher(scanner *ScanService, store storage.ObjectStore) *Publisher {
	return &Publisher{Scanner: scanner, Store: store}
}

// Latest liefert die Zusammenfassung des letzten erfolgreichen Laufs oder nil.
func (p *Publisher) Latest() *ScanSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// RunAndPublish führt eine strukturelle Suche aus und legt den Report ab.
func (p *Publisher) RunAndPublish(ctx context.Context, mibigPath string, set *models.ToxinReferenceSet) (*ScanSummary, error) {
	if !p.running.TryLock() {
		return nil, ErrScanRunning
	}
	defer p.running.Unlock()

	cfg := p.Scanner.Config
	log := p.Scanner.Logger
	started := time.Now().UTC()

	report, err := p.Scanner.RunStructural(ctx, mibigPath, set)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := report.WriteStructuralCSV(&buf); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("toxins-%s.csv", started.Format("2006-01-02T15-04-05Z"))
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("ausgabeverzeichnis: %w", err)
	}
	path := filepath.Join(cfg.OutputDir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("report schreiben: %w", err)
	}

	summary := &ScanSummary{
		StartedAt:              started,
		File:                   path,
		Toxins:                 report.Rows(),
		Classified:             report.Classified(),
		MissingCrossReferences: report.MissingCrossReferences(),
		InvalidCrossReferences: report.InvalidCrossReferences(),
		Prefilter:              report.Prefilter,
	}

	if p.Store != nil && cfg.S3Enabled() {
		link, err := storage.UploadReport(ctx, p.Store, cfg.S3URL, cfg.S3Bucket, reportPrefix+name, buf.Bytes())
		if err != nil {
			// Der lokale Report bleibt gültig.
			log.Error("Fehler beim Hochladen des Reports", zap.Error(err))
		} else {
			summary.Link = link
			if _, err := storage.RotateReports(ctx, p.Store, cfg.S3Bucket, reportPrefix, cfg.KeepReports, log); err != nil {
				log.Warn("Rotation alter Reports fehlgeschlagen", zap.Error(err))
			}
		}
	}

	summary.FinishedAt = time.Now().UTC()
	metrics.ScansCompleted.Inc()

	p.mu.Lock()
	p.latest = summary
	p.mu.Unlock()

	log.Info("Report veröffentlicht", zap.String("file", path), zap.String("link", summary.Link), zap.Int("toxins", len(summary.Toxins)))
	return summary, nil
}
