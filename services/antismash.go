package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// DefaultTopHitCutoff ist der minimale Score, ab dem ein MIBiG-Treffer gemeldet wird.
const DefaultTopHitCutoff = 0.9

const clusterCompareModule = "antismash.modules.cluster_compare"

// TopHit ist der beste MIBiG-Treffer einer antiSMASH-Region.
type TopHit struct {
	Record    int     `json:"record"`
	Region    int     `json:"region"`
	Score     float64 `json:"score"`
	Reference string  `json:"reference"`
	Compound  string  `json:"compound"`
	Organism  string  `json:"organism"`
}

type antismashResults struct {
	Records []antismashRecord `json:"records"`
}

type antismashRecord struct {
	Areas   []json.RawMessage          `json:"areas"`
	Modules map[string]json.RawMessage `json:"modules"`
}

type clusterCompareResults struct {
	DBResults map[string]struct {
		ByRegion map[string]map[string]json.RawMessage `json:"by_region"`
	} `json:"db_results"`
}

type regionToRegion struct {
	// Die Reihenfolge der Schlüssel ist die Rangfolge, daher roh behalten.
	ScoresByRegion   json.RawMessage `json:"scores_by_region"`
	ReferenceRegions map[string]struct {
		Description string `json:"description"`
		Organism    string `json:"organism"`
	} `json:"reference_regions"`
}

// ExtractTopHits liest antiSMASH-Ergebnisse (mit --cc-mibig) und liefert pro Region den
// besten MIBiG-Treffer, sofern sein Score mindestens cutoff ist.
func ExtractTopHits(r io.Reader, cutoff float64) ([]TopHit, error) {
	var results antismashResults
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("antiSMASH-JSON nicht lesbar: %w", err)
	}

	var hits []TopHit
	for ri, rec := range results.Records {
		if len(rec.Areas) == 0 {
			continue
		}
		raw, ok := rec.Modules[clusterCompareModule]
		if !ok {
			return nil, fmt.Errorf("record %d: modul %s fehlt (antiSMASH mit --cc-mibig ausführen)", ri, clusterCompareModule)
		}
		var cc clusterCompareResults
		if err := json.Unmarshal(raw, &cc); err != nil {
			return nil, fmt.Errorf("record %d: %w", ri, err)
		}
		mibig, ok := cc.DBResults["MIBiG"]
		if !ok {
			return nil, fmt.Errorf("record %d: keine MIBiG-Ergebnisse", ri)
		}

		for region := 1; region <= len(rec.Areas); region++ {
			byRegion, ok := mibig.ByRegion[strconv.Itoa(region)]
			if !ok {
				return nil, fmt.Errorf("record %d: region %d fehlt", ri, region)
			}
			rtrRaw, ok := byRegion["RegionToRegion_RiQ"]
			if !ok {
				return nil, fmt.Errorf("record %d: region %d: RegionToRegion_RiQ fehlt", ri, region)
			}
			var rtr regionToRegion
			if err := json.Unmarshal(rtrRaw, &rtr); err != nil {
				return nil, fmt.Errorf("record %d: region %d: %w", ri, region, err)
			}
			reference, score, err := firstScore(rtr.ScoresByRegion)
			if err != nil {
				return nil, fmt.Errorf("record %d: region %d: %w", ri, region, err)
			}
			if score < cutoff {
				continue
			}
			info, ok := rtr.ReferenceRegions[reference]
			if !ok {
				return nil, fmt.Errorf("record %d: region %d: referenz %s fehlt", ri, region, reference)
			}
			hits = append(hits, TopHit{
				Record:    ri,
				Region:    region,
				Score:     score,
				Reference: reference,
				Compound:  info.Description,
				Organism:  info.Organism,
			})
		}
	}
	return hits, nil
}

// firstScore liefert den ersten Eintrag eines JSON-Objekts in Dateireihenfolge.
func firstScore(raw json.RawMessage) (string, float64, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return "", 0, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return "", 0, errors.New("scores_by_region ist kein Objekt")
	}
	if !dec.More() {
		return "", 0, errors.New("scores_by_region ist leer")
	}
	keyTok, err := dec.Token()
	if err != nil {
		return "", 0, err
	}
	key, _ := keyTok.(string)
	var score float64
	if err := dec.Decode(&score); err != nil {
		return "", 0, err
	}
	return key, score, nil
}

// WriteTopHitsCSV schreibt die Treffer als CSV.
func WriteTopHitsCSV(w io.Writer, hits []TopHit) error {
	records := make([][]string, 0, len(hits))
	for _, h := range hits {
		records = append(records, []string{
			strconv.Itoa(h.Record),
			strconv.Itoa(h.Region),
			strconv.FormatFloat(h.Score, 'f', -1, 64),
			h.Reference,
			h.Compound,
			h.Organism,
		})
	}
	return writeCSV(w, []string{"record", "region", "score", "reference", "compound", "organism"}, records)
}
