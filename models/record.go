package models

// MIBiGDocument ist die Rohstruktur einer MIBiG-JSON-Datei, beschränkt auf die genutzten Felder.
// Optionale Felder sind Pointer, damit "fehlt" von "leer" unterscheidbar bleibt.
type MIBiGDocument struct {
	Cluster *MIBiGCluster `json:"cluster"`
}

// MIBiGCluster ist der "cluster"-Block eines Eintrags.
type MIBiGCluster struct {
	OrganismName *string          `json:"organism_name"`
	Compounds    *[]MIBiGCompound `json:"compounds"`
}

// MIBiGCompound ist ein Eintrag in "cluster.compounds".
type MIBiGCompound struct {
	Compound         *string   `json:"compound"`
	MolecularFormula *string   `json:"molecular_formula"`
	DatabaseID       *[]string `json:"database_id"`
}

// ClusterRecord ist ein validierter MIBiG-Eintrag.
type ClusterRecord struct {
	Accession string
	Organism  *string
	Compounds []CompoundEntry
}

// CompoundEntry ist eine rohe Verbindung eines Eintrags vor der Klassifikation.
type CompoundEntry struct {
	Name             string
	MolecularFormula *string
	// DatabaseIDs ist nil, wenn das Feld im Eintrag fehlt.
	DatabaseIDs *[]string
}

// OrganismName liefert den Organismus oder einen leeren String.
func (r *ClusterRecord) OrganismName() string {
	if r.Organism == nil {
		return ""
	}
	return *r.Organism
}
