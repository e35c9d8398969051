package services

import (
	"context"

	"go.uber.org/zap"

	"mibig-toxins/metrics"
	"mibig-toxins/models"
)

// Classifier entscheidet über den Toxin-Status einer Verbindung anhand ihres InChIKeys.
type Classifier struct {
	Resolver *IdentifierResolver
	Logger   *zap.Logger
}

// NewClassifier erstellt einen neuen Classifier.
func NewClassifier(resolver *IdentifierResolver, logger *zap.Logger) *Classifier {
	return &Classifier{Resolver: resolver, Logger: logger}
}

// ResolveStructuralKey sortiert die Verweise nach Priorität und fragt sie der Reihe nach ab,
// bis ein InChIKey gefunden wird.
func (c *Classifier) ResolveStructuralKey(ctx context.Context, compound *models.Compound) string {
	models.SortByPriority(compound.CrossReferences)

	for i := range compound.CrossReferences {
		if key := c.Resolver.Resolve(ctx, &compound.CrossReferences[i]); key != "" {
			compound.StructuralKey = key
			break
		}
	}
	return compound.StructuralKey
}

// ClassifyByStructure setzt den Toxin-Status: positiv genau dann, wenn ein InChIKey gefunden
// wurde und im Referenzset steht. Ohne auflösbaren Verweis ist das Ergebnis negativ; ob das
// "sauber" oder "keine Evidenz" heißt, zeigt der leere StructuralKey.
// Bereits klassifizierte Verbindungen werden nicht erneut abgefragt.
func (c *Classifier) ClassifyByStructure(ctx context.Context, compound *models.Compound, set *models.ToxinReferenceSet) models.ToxinStatus {
	if compound.Classified() {
		return compound.ToxinStatus
	}
	if compound.StructuralKey == "" {
		c.ResolveStructuralKey(ctx, compound)
	}

	if set.HasInChIKey(compound.StructuralKey) {
		compound.ToxinStatus = models.ToxinPositive
		c.Logger.Info("Toxin anhand des InChIKeys erkannt",
			zap.String("accession", compound.ClusterAccession),
			zap.Int("index", compound.Index),
			zap.String("compound", compound.Name),
			zap.String("inchikey", compound.StructuralKey))
	} else {
		compound.ToxinStatus = models.ToxinNegative
	}
	metrics.CompoundsClassified.WithLabelValues("structure", compound.ToxinStatus.String()).Inc()
	return compound.ToxinStatus
}
