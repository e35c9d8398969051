package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mibig-toxins/models"
)

// Spaltennamen der CompTox-Liste (https://comptox.epa.gov/dashboard/chemical-lists/MYCOTOX2).
const (
	compToxFormulaColumn  = "MOLECULAR FORMULA"
	compToxInChIKeyColumn = "INCHIKEY"
)

// LoadCompTox lädt Summenformeln und InChIKeys aus einer CompTox-CSV-Datei.
func LoadCompTox(path string) (*models.ToxinReferenceSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	set, err := ReadCompTox(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// ReadCompTox liest eine CompTox-Tabelle. Zusätzliche Spalten werden ignoriert,
// leere Zellen übersprungen.
func ReadCompTox(r io.Reader) (*models.ToxinReferenceSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("CompTox-Header nicht lesbar: %w", err)
	}
	formulaCol, keyCol := -1, -1
	for i, h := range header {
		switch strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case compToxFormulaColumn:
			formulaCol = i
		case compToxInChIKeyColumn:
			keyCol = i
		}
	}
	if formulaCol < 0 || keyCol < 0 {
		return nil, fmt.Errorf("CompTox-Tabelle braucht die Spalten %q und %q", compToxFormulaColumn, compToxInChIKeyColumn)
	}

	set := models.NewToxinReferenceSet()
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if formulaCol < len(row) {
			set.AddFormula(row[formulaCol])
		}
		if keyCol < len(row) {
			set.AddInChIKey(row[keyCol])
		}
	}
	return set, nil
}
