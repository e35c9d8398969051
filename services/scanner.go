package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mibig-toxins/config"
	"mibig-toxins/models"
)

// ScanService kümmert sich um die Orchestrierung eines Korpus-Durchlaufs:
// Laden, Vorfiltern, Klassifizieren, Report.
type ScanService struct {
	Config     *config.Config
	Logger     *zap.Logger
	Classifier *Classifier
}

// NewScanService erstellt eine neue Instanz des ScanService.
func NewScanService(cfg *config.Config, logger *zap.Logger, classifier *Classifier) *ScanService {
	return &ScanService{Config: cfg, Logger: logger, Classifier: classifier}
}

func (s *ScanService) workers() int {
	if s.Config.Workers <= 0 {
		return 1
	}
	return s.Config.Workers
}

// RunStructural sucht Toxine im Korpus anhand von InChIKeys.
// Strukturfehler in MIBiG-Dateien brechen den Lauf ab, alles andere wird gezählt und geloggt.
func (s *ScanService) RunStructural(ctx context.Context, mibigPath string, set *models.ToxinReferenceSet) (*Report, error) {
	log := s.Logger.With(zap.String("mibig_path", mibigPath))

	log.Info("Lade MIBiG-Einträge")
	records, err := LoadCorpus(mibigPath)
	if err != nil {
		return nil, err
	}
	log.Info("MIBiG-Einträge gefunden", zap.Int("total", len(records)))

	kept, stats := Prefilter(records, set)
	log.Info("Vorfilterung nach Summenformel abgeschlossen",
		zap.Int("kept", stats.Kept),
		zap.Int("kept_missing_formula", stats.KeptMissingFormula))

	report := NewReport()
	report.Prefilter = stats

	var jobs []*models.Compound
	for _, rec := range kept {
		compounds, invalid := CompoundsFromRecord(rec)
		if len(invalid) > 0 {
			log.Debug("Unlesbare Verweise übersprungen", zap.String("accession", rec.Accession), zap.Strings("ids", invalid))
			report.RecordInvalidCrossReferences(len(invalid))
		}
		for _, c := range compounds {
			if c.Organism == "" {
				report.RecordMissingOrganism()
			}
			if c.MolecularFormula == "" {
				report.RecordMissingFormula()
			}
			if !c.HasCrossReferences {
				report.RecordMissingCrossReferences()
				continue
			}
			jobs = append(jobs, c)
		}
	}

	log.Info("Durchsuche Datenbanken nach InChIKeys", zap.Int("compounds", len(jobs)), zap.Int("workers", s.workers()))
	var g errgroup.Group
	g.SetLimit(s.workers())
	for _, c := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			s.Classifier.ClassifyByStructure(ctx, c, set)
			report.Add(c)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return report, err
	}

	report.LogSummary(log)
	log.Info("Suche abgeschlossen", zap.Int("toxins", len(report.Rows())))
	return report, nil
}

// NameScanResult ist das Ergebnis einer Namenssuche.
type NameScanResult struct {
	Report *Report
	Gaps   []string
}

// RunByName klassifiziert alle Verbindungen des Korpus anhand ihres Namens.
// Es werden keine Netzabfragen gemacht und nicht vorgefiltert.
func (s *ScanService) RunByName(mibigPath string, matcher *NameMatcher) (*NameScanResult, error) {
	log := s.Logger.With(zap.String("mibig_path", mibigPath), zap.String("mode", matcher.Mode().String()))

	records, err := LoadCorpus(mibigPath)
	if err != nil {
		return nil, err
	}

	report := NewReport()
	report.Prefilter = PrefilterStats{Total: len(records), Kept: len(records)}
	var all []*models.Compound
	for _, rec := range records {
		compounds, _ := CompoundsFromRecord(rec)
		for _, c := range compounds {
			if c.Organism == "" {
				report.RecordMissingOrganism()
			}
			matcher.ClassifyByName(c)
			report.Add(c)
			all = append(all, c)
		}
	}

	gaps := matcher.Unmatched(all)
	report.LogSummary(log)
	log.Info("Namenssuche abgeschlossen",
		zap.Int("records", len(records)),
		zap.Int("fragments", len(matcher.Fragments())),
		zap.Int("toxins", len(report.Rows())),
		zap.Int("unmatched_names", len(gaps)))
	return &NameScanResult{Report: report, Gaps: gaps}, nil
}
