package services

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mibig-toxins/models"
)

func sampleReport() *Report {
	r := NewReport()
	r.Add(&models.Compound{ClusterAccession: "BGC0000120", Organism: "Penicillium expansum", Index: 0, Name: "patulin", StructuralKey: patulinKey, ToxinStatus: models.ToxinPositive})
	r.Add(&models.Compound{ClusterAccession: "BGC0000008", Organism: "Aspergillus flavus", Index: 2, Name: "aflatoxin B1", StructuralKey: aflatoxinB1Key, ToxinStatus: models.ToxinPositive})
	r.Add(&models.Compound{ClusterAccession: "BGC0000008", Organism: "Aspergillus flavus", Index: 1, Name: "versicolorin A", ToxinStatus: models.ToxinNegative})
	r.Add(&models.Compound{ClusterAccession: "BGC0000008", Organism: "Aspergillus flavus", Index: 0, Name: "aflatoxin G1", StructuralKey: otherKey, ToxinStatus: models.ToxinPositive})
	return r
}

func TestReport_Rows(t *testing.T) {
	r := sampleReport()
	rows := r.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "BGC0000008", rows[0].Accession)
	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, 2, rows[1].Index)
	assert.Equal(t, "BGC0000120", rows[2].Accession)
	assert.Equal(t, 4, r.Classified())
}

func TestReport_WriteStructuralCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().WriteStructuralCSV(&buf))
	assert.Equal(t, "MIBiG Accession,Organism,Compound Index,Compound Name,Inchikey\n"+
		"BGC0000008,Aspergillus flavus,0,aflatoxin G1,"+otherKey+"\n"+
		"BGC0000008,Aspergillus flavus,2,aflatoxin B1,"+aflatoxinB1Key+"\n"+
		"BGC0000120,Penicillium expansum,0,patulin,"+patulinKey+"\n", buf.String())
}

func TestReport_WriteNameCSV(t *testing.T) {
	r := NewReport()
	r.Add(&models.Compound{ClusterAccession: "BGC1", Organism: "Fusarium graminearum", Index: 3, Name: "15-acetyl-deoxynivalenol, 3-ADON", ToxinStatus: models.ToxinPositive})

	var buf bytes.Buffer
	require.NoError(t, r.WriteNameCSV(&buf))
	assert.Equal(t, "MIBiG Accession,Organism,Compound Index,Compound Name\n"+
		"BGC1,Fusarium graminearum,3,\"15-acetyl-deoxynivalenol, 3-ADON\"\n", buf.String())
}

func TestReport_EmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReport().WriteStructuralCSV(&buf))
	assert.Equal(t, "MIBiG Accession,Organism,Compound Index,Compound Name,Inchikey\n", buf.String())
}

func TestWriteGapAndMissingIDsCSV(t *testing.T) {
	var gaps bytes.Buffer
	require.NoError(t, WriteGapCSV(&gaps, []GapEntry{{Name: "ochratoxin", Tier: models.TierHighConfidence}, {Name: "fusarin", Tier: models.TierExtended}}))
	assert.Equal(t, "Toxin Name,Tier\nochratoxin,high\nfusarin,extended\n", gaps.String())

	var missing bytes.Buffer
	require.NoError(t, WriteMissingIDsCSV(&missing, []MissingCrossReference{{Accession: "BGC1", Index: 0, Name: "x"}}))
	assert.Equal(t, "accession,compound_index,compound_name\nBGC1,0,x\n", missing.String())
}

func TestReport_LogSummaryWarnsOnce(t *testing.T) {
	r := NewReport()
	for range 5 {
		r.RecordMissingCrossReferences()
	}

	core, logs := observer.New(zapcore.WarnLevel)
	r.LogSummary(zap.New(core))

	entries := logs.FilterMessage("Verbindungen ohne database_id übersprungen").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(5), entries[0].ContextMap()["count"])
	assert.Zero(t, logs.FilterMessage("Unlesbare Datenbankverweise ignoriert").Len())
}

func TestReport_LogSummaryMissingOrganismAndFormula(t *testing.T) {
	r := NewReport()
	for range 3 {
		r.RecordMissingOrganism()
	}
	r.RecordMissingFormula()

	core, logs := observer.New(zapcore.WarnLevel)
	r.LogSummary(zap.New(core))

	organism := logs.FilterMessage("Verbindungen ohne organism_name").All()
	require.Len(t, organism, 1)
	assert.Equal(t, int64(3), organism[0].ContextMap()["count"])
	formula := logs.FilterMessage("Verbindungen ohne molecular_formula").All()
	require.Len(t, formula, 1)
	assert.Equal(t, int64(1), formula[0].ContextMap()["count"])
	assert.Equal(t, 2, logs.Len())
}

func TestReport_LogSummarySilentWhenClean(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	NewReport().LogSummary(zap.New(core))
	assert.Zero(t, logs.Len())
}

func TestReport_ConcurrentAdd(t *testing.T) {
	r := NewReport()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Add(&models.Compound{ClusterAccession: "BGC", Index: i, Name: "t", ToxinStatus: models.ToxinPositive})
		}()
	}
	wg.Wait()
	assert.Len(t, r.Rows(), 50)
	assert.Equal(t, 50, r.Classified())
}
