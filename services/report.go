package services

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"mibig-toxins/models"
)

var (
	structuralHeader = []string{"MIBiG Accession", "Organism", "Compound Index", "Compound Name", "Inchikey"}
	nameHeader       = []string{"MIBiG Accession", "Organism", "Compound Index", "Compound Name"}
	gapHeader        = []string{"Toxin Name", "Tier"}
	missingIDsHeader = []string{"accession", "compound_index", "compound_name"}
)

// ReportRow ist eine Zeile pro positiv klassifizierter Verbindung.
type ReportRow struct {
	Accession     string `json:"accession"`
	Organism      string `json:"organism"`
	Index         int    `json:"index"`
	Name          string `json:"name"`
	StructuralKey string `json:"structural_key,omitempty"`
}

// Report sammelt Ergebnisse und Datenqualitätsprobleme eines Laufs.
// Add darf aus mehreren Goroutinen aufgerufen werden.
type Report struct {
	mu         sync.Mutex
	rows       []ReportRow
	classified int
	missingIDs int
	invalidIDs int
	noOrganism int
	noFormula  int

	Prefilter PrefilterStats
}

// NewReport erstellt einen leeren Report.
func NewReport() *Report {
	return &Report{}
}

// Add übernimmt eine klassifizierte Verbindung; nur Toxine erzeugen eine Zeile.
func (r *Report) Add(c *models.Compound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classified++
	if !c.IsToxin() {
		return
	}
	r.rows = append(r.rows, ReportRow{
		Accession:     c.ClusterAccession,
		Organism:      c.Organism,
		Index:         c.Index,
		Name:          c.Name,
		StructuralKey: c.StructuralKey,
	})
}

// RecordMissingCrossReferences zählt eine Verbindung, die mangels database_id übersprungen wurde.
func (r *Report) RecordMissingCrossReferences() {
	r.mu.Lock()
	r.missingIDs++
	r.mu.Unlock()
}

// RecordInvalidCrossReferences zählt unlesbare Verweise (z.B. unbekannte Datenbank).
func (r *Report) RecordInvalidCrossReferences(n int) {
	r.mu.Lock()
	r.invalidIDs += n
	r.mu.Unlock()
}

// RecordMissingOrganism zählt eine Verbindung, deren Eintrag kein organism_name hat.
func (r *Report) RecordMissingOrganism() {
	r.mu.Lock()
	r.noOrganism++
	r.mu.Unlock()
}

// RecordMissingFormula zählt eine Verbindung ohne molecular_formula.
func (r *Report) RecordMissingFormula() {
	r.mu.Lock()
	r.noFormula++
	r.mu.Unlock()
}

// Rows liefert die Zeilen sortiert nach Accession und Index.
func (r *Report) Rows() []ReportRow {
	r.mu.Lock()
	rows := append([]ReportRow(nil), r.rows...)
	r.mu.Unlock()
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Accession != rows[j].Accession {
			return rows[i].Accession < rows[j].Accession
		}
		return rows[i].Index < rows[j].Index
	})
	return rows
}

func (r *Report) Classified() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.classified
}

func (r *Report) MissingCrossReferences() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.missingIDs
}

func (r *Report) InvalidCrossReferences() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.invalidIDs
}

func (r *Report) MissingOrganisms() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.noOrganism
}

func (r *Report) MissingFormulas() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.noFormula
}

// LogSummary gibt Datenqualitätsprobleme gesammelt als je eine Warnung aus.
func (r *Report) LogSummary(logger *zap.Logger) {
	if n := r.MissingCrossReferences(); n != 0 {
		logger.Warn("Verbindungen ohne database_id übersprungen", zap.Int("count", n))
	}
	if n := r.InvalidCrossReferences(); n != 0 {
		logger.Warn("Unlesbare Datenbankverweise ignoriert", zap.Int("count", n))
	}
	if n := r.MissingOrganisms(); n != 0 {
		logger.Warn("Verbindungen ohne organism_name", zap.Int("count", n))
	}
	if n := r.MissingFormulas(); n != 0 {
		logger.Warn("Verbindungen ohne molecular_formula", zap.Int("count", n))
	}
}

// WriteStructuralCSV schreibt den Report inklusive InChIKey-Spalte.
func (r *Report) WriteStructuralCSV(w io.Writer) error {
	rows := r.Rows()
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{row.Accession, row.Organism, strconv.Itoa(row.Index), row.Name, row.StructuralKey})
	}
	return writeCSV(w, structuralHeader, records)
}

// WriteNameCSV schreibt den Report der Namenssuche (ohne InChIKey).
func (r *Report) WriteNameCSV(w io.Writer) error {
	rows := r.Rows()
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{row.Accession, row.Organism, strconv.Itoa(row.Index), row.Name})
	}
	return writeCSV(w, nameHeader, records)
}

// GapEntry ist ein bekanntes Toxin ohne Treffer im Korpus.
type GapEntry struct {
	Name string
	Tier models.NameTier
}

// WriteGapCSV schreibt die Liste der nicht gefundenen Toxine.
func WriteGapCSV(w io.Writer, gaps []GapEntry) error {
	records := make([][]string, 0, len(gaps))
	for _, g := range gaps {
		records = append(records, []string{g.Name, g.Tier.String()})
	}
	return writeCSV(w, gapHeader, records)
}

// WriteMissingIDsCSV schreibt die Verbindungen ohne database_id.
func WriteMissingIDsCSV(w io.Writer, missing []MissingCrossReference) error {
	records := make([][]string, 0, len(missing))
	for _, m := range missing {
		records = append(records, []string{m.Accession, strconv.Itoa(m.Index), m.Name})
	}
	return writeCSV(w, missingIDsHeader, records)
}

func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}
