package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"mibig-toxins/config"
	"mibig-toxins/models"
	"mibig-toxins/services"
	"mibig-toxins/storage"
)

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Referenzdaten für die strukturelle Suche
	var reference *models.ToxinReferenceSet
	if cfg.CompToxPath != "" {
		reference, err = services.LoadCompTox(cfg.CompToxPath)
		if err != nil {
			logging.Fatal("Failed to load CompTox table", zap.String("path", cfg.CompToxPath), zap.Error(err))
		}
		logging.Info("CompTox reference loaded",
			zap.Int("inchikeys", len(reference.InChIKeys)),
			zap.Int("formulas", len(reference.Formulas)))
	} else {
		logging.Warn("COMPTOX_PATH not set, structural classification disabled")
	}

	// Im Service-Modus gibt es kein Terminal, ChemSpider braucht daher CHEMSPIDER_API_KEY.
	resolver := services.NewIdentifierResolver(services.NewResolvers(cfg, logging, nil), cfg.ResolutionCacheTTL, logging)
	classifier := services.NewClassifier(resolver, logging)
	scanService := services.NewScanService(cfg, logging, classifier)

	var store storage.ObjectStore
	if cfg.S3Enabled() {
		s3Client, err := storage.NewS3Client(context.Background(), cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		store = s3Client
	}
	publisher := services.NewPublisher(scanService, store)

	router := newRouter(cfg, logging, classifier, publisher, reference)

	if cfg.CronSchedule != "" {
		cronScheduler := cron.New()
		_, err := cronScheduler.AddFunc(cfg.CronSchedule, func() {
			logging.Info("Running scheduled scan...")
			if err := runScan(context.Background(), cfg, publisher, reference); err != nil {
				logging.Error("Cron job failed", zap.Error(err))
			}
		})
		if err != nil {
			logging.Fatal("Invalid CRON_SCHEDULE", zap.String("schedule", cfg.CronSchedule), zap.Error(err))
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

var errScanNotConfigured = errors.New("MIBIG_PATH and COMPTOX_PATH must be set")

func runScan(ctx context.Context, cfg *config.Config, publisher *services.Publisher, reference *models.ToxinReferenceSet) error {
	if cfg.MIBiGPath == "" || reference == nil {
		return errScanNotConfigured
	}
	_, err := publisher.RunAndPublish(ctx, cfg.MIBiGPath, reference)
	return err
}

func newRouter(cfg *config.Config, logging *zap.Logger, classifier *services.Classifier, publisher *services.Publisher, reference *models.ToxinReferenceSet) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupClassifyRoutes(router, classifier, reference, logging)
	setupScanRoutes(router, cfg, publisher, reference, logging)
	setupToxinRoutes(router, reference)
	return router
}

type classifyRequest struct {
	Name            string   `json:"name" binding:"required"`
	CrossReferences []string `json:"cross_references"`
	// "structure" (Standard, wenn Verweise vorhanden) oder "name"
	Method string `json:"method"`
	Exact  bool   `json:"exact"`
	Tier   string `json:"tier"`
}

type classifyResponse struct {
	Name            string                  `json:"name"`
	Method          string                  `json:"method"`
	Status          models.ToxinStatus      `json:"status"`
	StructuralKey   string                  `json:"structural_key,omitempty"`
	CrossReferences []models.CrossReference `json:"cross_references,omitempty"`
	Invalid         []string                `json:"invalid_cross_references,omitempty"`
	MatchedNames    []string                `json:"matched_names,omitempty"`
}

// setupClassifyRoutes konfiguriert die Einzelklassifizierung einer Verbindung
func setupClassifyRoutes(router *gin.Engine, classifier *services.Classifier, reference *models.ToxinReferenceSet, log *zap.Logger) {
	router.POST("/classify", func(c *gin.Context) {
		var req classifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'name' field is required."})
			return
		}

		method := strings.ToLower(req.Method)
		if method == "" {
			method = "structure"
			if len(req.CrossReferences) == 0 {
				method = "name"
			}
		}

		compound := &models.Compound{Name: req.Name, HasCrossReferences: req.CrossReferences != nil}
		resp := classifyResponse{Name: req.Name, Method: method}

		switch method {
		case "name":
			tier := models.TierAll
			if req.Tier != "" {
				t, ok := models.ParseNameTier(req.Tier)
				if !ok {
					c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tier: " + req.Tier})
					return
				}
				tier = t
			}
			mode := services.MatchSubstring
			if req.Exact {
				mode = services.MatchExact
			}
			set := reference
			if set == nil {
				set = models.NewToxinReferenceSet()
			}
			matcher, err := services.NewNameMatcher(set.Names(tier), mode)
			if err != nil {
				log.Error("Invalid toxin name pattern", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid toxin name pattern"})
				return
			}
			resp.Status = matcher.ClassifyByName(compound)
			resp.MatchedNames = matcher.MatchingFragments(compound.Name)

		case "structure":
			if reference == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "structural classification disabled, COMPTOX_PATH not set"})
				return
			}
			for _, raw := range req.CrossReferences {
				ref, err := models.ParseCrossReference(raw)
				if err != nil {
					resp.Invalid = append(resp.Invalid, raw)
					continue
				}
				compound.CrossReferences = append(compound.CrossReferences, ref)
			}
			resp.Status = classifier.ClassifyByStructure(c.Request.Context(), compound, reference)
			resp.StructuralKey = compound.StructuralKey
			resp.CrossReferences = compound.CrossReferences

		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "method must be 'structure' or 'name'"})
			return
		}

		c.JSON(http.StatusOK, resp)
	})
}

// setupScanRoutes konfiguriert das Auslösen und Abfragen von Korpus-Läufen
func setupScanRoutes(router *gin.Engine, cfg *config.Config, publisher *services.Publisher, reference *models.ToxinReferenceSet, log *zap.Logger) {
	rg := router.Group("/scans")

	rg.POST("", func(c *gin.Context) {
		if cfg.MIBiGPath == "" || reference == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": errScanNotConfigured.Error()})
			return
		}
		go func() {
			err := runScan(context.Background(), cfg, publisher, reference)
			switch {
			case errors.Is(err, services.ErrScanRunning):
				log.Warn("Scan already running, request ignored")
			case err != nil:
				log.Error("Async scan failed", zap.Error(err))
			default:
				log.Info("Async scan completed")
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "Scan triggered."})
	})

	rg.GET("/latest", func(c *gin.Context) {
		latest := publisher.Latest()
		if latest == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no scan completed yet"})
			return
		}
		c.JSON(http.StatusOK, latest)
	})
}

// setupToxinRoutes liefert die eingebauten Toxin-Namenslisten
func setupToxinRoutes(router *gin.Engine, reference *models.ToxinReferenceSet) {
	router.GET("/toxins/names", func(c *gin.Context) {
		set := reference
		if set == nil {
			set = models.NewToxinReferenceSet()
		}
		tier := models.TierAll
		if q := c.Query("tier"); q != "" {
			t, ok := models.ParseNameTier(q)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tier: " + q})
				return
			}
			tier = t
		}
		c.JSON(http.StatusOK, gin.H{"tier": tier.String(), "names": set.Names(tier)})
	})
}
