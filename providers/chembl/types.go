// Package chembl löst ChEMBL-IDs über die ChEMBL-Web-Services auf.
package chembl

// MoleculeResponse repräsentiert die JSON-Antwort der Molecule-Ressource.
type MoleculeResponse struct {
	Molecules []Molecule `json:"molecules"`
}

// Molecule ist ein einzelnes Molekül; MoleculeStructures fehlt z.B. bei Biologika.
type Molecule struct {
	ChEMBLID           string              `json:"molecule_chembl_id"`
	MoleculeStructures *MoleculeStructures `json:"molecule_structures"`
}

type MoleculeStructures struct {
	StandardInChIKey string `json:"standard_inchi_key"`
}
