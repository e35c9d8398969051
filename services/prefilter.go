package services

import "mibig-toxins/models"

// PrefilterStats enthält Kennzahlen zur Vorfilterung.
type PrefilterStats struct {
	Total int `json:"total"`
	Kept  int `json:"kept"`
	// KeptMissingFormula zählt Einträge, die wegen einer fehlenden Summenformel behalten wurden.
	KeptMissingFormula int `json:"kept_missing_formula"`
}

// Prefilter behält Einträge, die mindestens eine Verbindung enthalten, deren Summenformel
// einem Toxin entspricht oder unbekannt ist. Ein Eintrag wird nur als Ganzes behalten oder
// verworfen. Der Filter verwirft nie einen echten Treffer, spart aber die Netzabfragen für
// Einträge mit ausschließlich unpassenden Formeln.
func Prefilter(records []*models.ClusterRecord, set *models.ToxinReferenceSet) ([]*models.ClusterRecord, PrefilterStats) {
	stats := PrefilterStats{Total: len(records)}
	var kept []*models.ClusterRecord

	for _, rec := range records {
		for _, c := range rec.Compounds {
			if c.MolecularFormula == nil {
				kept = append(kept, rec)
				stats.KeptMissingFormula++
				break
			}
			if set.HasFormula(*c.MolecularFormula) {
				kept = append(kept, rec)
				break
			}
		}
	}

	stats.Kept = len(kept)
	return kept, stats
}
