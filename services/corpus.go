package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mibig-toxins/models"
)

// ErrMalformedRecord kennzeichnet MIBiG-Dateien, denen Pflichtfelder fehlen.
// Solche Fehler brechen den Lauf ab.
var ErrMalformedRecord = errors.New("malformed MIBiG record")

// ListCorpus liefert alle .json-Dateien im MIBiG-Verzeichnis, sortiert.
func ListCorpus(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s ist kein Verzeichnis", dir)
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// AccessionFromPath leitet die MIBiG-Accession aus dem Dateinamen ab ("BGC0000001.json").
func AccessionFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadRecord liest und validiert eine einzelne MIBiG-Datei.
func LoadRecord(path string) (*models.ClusterRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeRecord(AccessionFromPath(path), f)
}

// DecodeRecord dekodiert eine MIBiG-Datei. Fehlende optionale Felder (Organismus,
// Summenformel, database_id) sind erlaubt; fehlen "cluster", "compounds" oder ein
// Verbindungsname, wird ErrMalformedRecord geliefert.
func DecodeRecord(accession string, r io.Reader) (*models.ClusterRecord, error) {
	var doc models.MIBiGDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, accession, err)
	}
	if doc.Cluster == nil {
		return nil, fmt.Errorf("%w: %s: field cluster missing", ErrMalformedRecord, accession)
	}
	if doc.Cluster.Compounds == nil {
		return nil, fmt.Errorf("%w: %s: field cluster.compounds missing", ErrMalformedRecord, accession)
	}

	rec := &models.ClusterRecord{
		Accession: accession,
		Organism:  doc.Cluster.OrganismName,
		Compounds: make([]models.CompoundEntry, 0, len(*doc.Cluster.Compounds)),
	}
	for i, c := range *doc.Cluster.Compounds {
		if c.Compound == nil {
			return nil, fmt.Errorf("%w: %s: compound %d has no name", ErrMalformedRecord, accession, i)
		}
		rec.Compounds = append(rec.Compounds, models.CompoundEntry{
			Name:             *c.Compound,
			MolecularFormula: c.MolecularFormula,
			DatabaseIDs:      c.DatabaseID,
		})
	}
	return rec, nil
}

// LoadCorpus lädt alle Einträge eines MIBiG-Verzeichnisses.
func LoadCorpus(dir string) ([]*models.ClusterRecord, error) {
	paths, err := ListCorpus(dir)
	if err != nil {
		return nil, err
	}
	records := make([]*models.ClusterRecord, 0, len(paths))
	for _, p := range paths {
		rec, err := LoadRecord(p)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// CompoundsFromRecord erzeugt die Verbindungen eines Eintrags.
// invalid enthält Verweise, die nicht geparst werden konnten (z.B. unbekannte Datenbank);
// sie werden übersprungen.
func CompoundsFromRecord(rec *models.ClusterRecord) (compounds []*models.Compound, invalid []string) {
	organism := rec.OrganismName()
	for i, entry := range rec.Compounds {
		c := &models.Compound{
			ClusterAccession: rec.Accession,
			Index:            i,
			Name:             entry.Name,
			Organism:         organism,
		}
		if entry.MolecularFormula != nil {
			c.MolecularFormula = *entry.MolecularFormula
		}
		if entry.DatabaseIDs != nil {
			c.HasCrossReferences = true
			for _, raw := range *entry.DatabaseIDs {
				ref, err := models.ParseCrossReference(raw)
				if err != nil {
					invalid = append(invalid, raw)
					continue
				}
				c.CrossReferences = append(c.CrossReferences, ref)
			}
		}
		compounds = append(compounds, c)
	}
	return compounds, invalid
}

// MissingCrossReference beschreibt eine Verbindung ohne database_id-Feld.
type MissingCrossReference struct {
	Accession string
	Index     int
	Name      string
}

// ListMissingCrossReferences sammelt alle Verbindungen ohne database_id.
func ListMissingCrossReferences(records []*models.ClusterRecord) []MissingCrossReference {
	var out []MissingCrossReference
	for _, rec := range records {
		for i, c := range rec.Compounds {
			if c.DatabaseIDs == nil {
				out = append(out, MissingCrossReference{Accession: rec.Accession, Index: i, Name: c.Name})
			}
		}
	}
	return out
}
