package config

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	// Basis-URLs der externen Strukturdatenbanken
	ChEMBLBaseURL     string `envconfig:"CHEMBL_BASE_URL" default:"https://www.ebi.ac.uk/chembl/api/data"`
	ChEBIBaseURL      string `envconfig:"CHEBI_BASE_URL" default:"https://www.ebi.ac.uk/webservices/chebi/2.0/test"`
	NPAtlasBaseURL    string `envconfig:"NPATLAS_BASE_URL" default:"https://www.npatlas.org/api/v1"`
	ChemSpiderBaseURL string `envconfig:"CHEMSPIDER_BASE_URL" default:"https://api.rsc.org/compounds/v1"`
	PubChemBaseURL    string `envconfig:"PUBCHEM_BASE_URL" default:"https://pubchem.ncbi.nlm.nih.gov/rest/pug"`

	// ChemSpider verlangt einen API-Key (https://developer.rsc.org/get-started).
	// Fehlt er, wird einmalig interaktiv danach gefragt.
	ChemSpiderAPIKey string `envconfig:"CHEMSPIDER_API_KEY"`

	HTTPTimeout         time.Duration `envconfig:"HTTP_TIMEOUT" default:"60s"`
	LookupMaxAttempts   int           `envconfig:"LOOKUP_MAX_ATTEMPTS" default:"3"`
	RateLimitBackoff    time.Duration `envconfig:"RATE_LIMIT_BACKOFF" default:"60s"`
	TransientBackoff    time.Duration `envconfig:"TRANSIENT_BACKOFF" default:"1s"`
	LookupRatePerSecond float64       `envconfig:"LOOKUP_RATE_PER_SECOND" default:"0"`

	Workers            int           `envconfig:"WORKERS" default:"4"`
	ResolutionCacheTTL time.Duration `envconfig:"RESOLUTION_CACHE_TTL" default:"24h"`

	// Service-Modus
	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`
	CronSchedule string `envconfig:"CRON_SCHEDULE"`
	MIBiGPath    string `envconfig:"MIBIG_PATH"`
	CompToxPath  string `envconfig:"COMPTOX_PATH"`
	OutputDir    string `envconfig:"OUTPUT_DIR" default:"results"`

	// Optionaler S3-Spiegel für Reports
	S3URL       string `envconfig:"S3_URL"`
	S3Key       string `envconfig:"S3_KEY"`
	S3Secret    string `envconfig:"S3_SECRET"`
	S3Region    string `envconfig:"S3_REGION" default:"eu-central-1"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	KeepReports int    `envconfig:"KEEP_REPORTS" default:"4"`
}

// S3Enabled meldet, ob Reports zusätzlich in einen Bucket gespiegelt werden sollen.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3URL != ""
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if c.KeepReports < 0 {
		return nil, fmt.Errorf("KEEP_REPORTS darf nicht negativ sein: %d", c.KeepReports)
	}
	return &c, nil
}

// Default liefert die Standardkonfiguration aus den default-Tags, ohne Umgebung oder .env zu lesen.
func Default() *Config {
	var c Config
	v := reflect.ValueOf(&c).Elem()
	for i := range v.NumField() {
		field := v.Type().Field(i)
		def, ok := field.Tag.Lookup("default")
		if !ok {
			continue
		}
		if err := setDefault(v.Field(i), def); err != nil {
			panic(fmt.Sprintf("config: ungültiger default für %s: %v", field.Name, err))
		}
	}
	return &c
}

func setDefault(f reflect.Value, def string) error {
	if f.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(def)
		if err != nil {
			return err
		}
		f.SetInt(int64(d))
		return nil
	}

	switch f.Kind() {
	case reflect.String:
		f.SetString(def)
	case reflect.Int:
		n, err := strconv.Atoi(def)
		if err != nil {
			return err
		}
		f.SetInt(int64(n))
	case reflect.Float64:
		x, err := strconv.ParseFloat(def, 64)
		if err != nil {
			return err
		}
		f.SetFloat(x)
	default:
		return fmt.Errorf("typ %s nicht unterstützt", f.Type())
	}
	return nil
}
