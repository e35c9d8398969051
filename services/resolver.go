package services

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"mibig-toxins/config"
	"mibig-toxins/metrics"
	"mibig-toxins/models"
	"mibig-toxins/providers"
	"mibig-toxins/providers/chebi"
	"mibig-toxins/providers/chembl"
	"mibig-toxins/providers/chemspider"
	"mibig-toxins/providers/npatlas"
	"mibig-toxins/providers/pubchem"
)

// NewResolvers baut die Resolver aller fünf Quellen in Prioritätsreihenfolge.
func NewResolvers(cfg *config.Config, logger *zap.Logger, prompt chemspider.KeyPrompt) []providers.Resolver {
	return []providers.Resolver{
		chembl.NewFetcher(cfg, logger),
		chebi.NewFetcher(cfg, logger),
		npatlas.NewFetcher(cfg, logger),
		chemspider.NewFetcher(cfg, logger, prompt),
		pubchem.NewFetcher(cfg, logger),
	}
}

// cachedResolution ist ein Cache-Eintrag; ein leerer InChIKey ist ein negatives Ergebnis.
type cachedResolution struct {
	InChIKey string
	URL      string
}

// IdentifierResolver löst einzelne Verweise auf und lässt keinen Fehler nach außen.
// Fehler werden mit Quelle und ID als Warnung geloggt und als "kein InChIKey" behandelt.
type IdentifierResolver struct {
	resolvers map[models.Source]providers.Resolver
	cache     *cache.Cache
	logger    *zap.Logger
}

// NewIdentifierResolver erstellt einen IdentifierResolver. cacheTTL <= 0 deaktiviert den Cache.
func NewIdentifierResolver(resolvers []providers.Resolver, cacheTTL time.Duration, logger *zap.Logger) *IdentifierResolver {
	r := &IdentifierResolver{
		resolvers: make(map[models.Source]providers.Resolver, len(resolvers)),
		logger:    logger,
	}
	for _, res := range resolvers {
		r.resolvers[res.Source()] = res
	}
	if cacheTTL > 0 {
		r.cache = cache.New(cacheTTL, cacheTTL*2)
	}
	return r
}

// Resolve liefert den InChIKey zu ref oder "". ref.ResolvedURL wird dabei gesetzt.
func (r *IdentifierResolver) Resolve(ctx context.Context, ref *models.CrossReference) string {
	source := ref.Source.String()
	cacheKey := ref.String()

	if r.cache != nil {
		if cached, found := r.cache.Get(cacheKey); found {
			if res, ok := cached.(cachedResolution); ok {
				metrics.Lookups.WithLabelValues(source, "cached").Inc()
				ref.ResolvedURL = res.URL
				return res.InChIKey
			}
		}
	}

	log := r.logger.With(zap.String("source", source), zap.String("id", ref.SourceID))
	resolver, ok := r.resolvers[ref.Source]
	if !ok {
		log.Warn("Keine Quelle für Verweis konfiguriert")
		metrics.Lookups.WithLabelValues(source, "error").Inc()
		return ""
	}
	log = log.With(zap.String("provider", resolver.Name()))

	log.Info("Durchsuche Datenbank")
	res, err := resolver.ResolveStructuralKey(ctx, ref.SourceID)
	if errors.Is(err, providers.ErrNoIdentifier) {
		log.Debug("Eintrag ohne InChIKey", zap.Error(err))
		res, err = nil, nil
	}
	if err != nil {
		// Nicht cachen: Netzwerk- und Statusfehler können beim nächsten Mal verschwinden.
		log.Warn("Auflösung fehlgeschlagen", zap.Error(err))
		metrics.Lookups.WithLabelValues(source, "error").Inc()
		return ""
	}

	entry := cachedResolution{}
	if res != nil {
		entry = cachedResolution{InChIKey: res.InChIKey, URL: res.URL}
	}
	if r.cache != nil {
		r.cache.Set(cacheKey, entry, cache.DefaultExpiration)
	}

	ref.ResolvedURL = entry.URL
	if entry.InChIKey == "" {
		log.Debug("Kein InChIKey in der Antwort")
		metrics.Lookups.WithLabelValues(source, "absent").Inc()
		return ""
	}
	metrics.Lookups.WithLabelValues(source, "found").Inc()
	log.Debug("InChIKey gefunden", zap.String("inchikey", entry.InChIKey))
	return entry.InChIKey
}
