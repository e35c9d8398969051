package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"mibig-toxins/config"
	"mibig-toxins/storage"
)

const backupPrefix = "backups/"

// Packt alle lokalen Reports aus OUTPUT_DIR in ein Archiv und legt es im Bucket ab.
func main() {
	log.Println("Starte Backup der Reports...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Fehler beim Laden der Konfiguration: %v", err)
	}
	if !cfg.S3Enabled() {
		log.Fatalf("S3_URL und S3_BUCKET müssen gesetzt sein")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// 1. Archiv erstellen
	archive, count, err := createArchive(cfg.OutputDir)
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des Archivs: %v", err)
	}
	if count == 0 {
		log.Printf("Keine Reports in %s gefunden, nichts zu tun.", cfg.OutputDir)
		return
	}

	// 2. S3-Client erstellen
	s3Client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des S3-Clients: %v", err)
	}

	// 3. Archiv hochladen
	fileName := fmt.Sprintf("%sreports-%s.tar.gz", backupPrefix, time.Now().UTC().Format("2006-01-02T15-04-05Z"))
	link, err := storage.UploadReport(ctx, s3Client, cfg.S3URL, cfg.S3Bucket, fileName, archive)
	if err != nil {
		log.Fatalf("Fehler beim Hochladen nach S3: %v", err)
	}
	log.Printf("Backup mit %d Reports nach %s hochgeladen", count, link)

	// 4. Alte Backups rotieren
	if _, err := storage.RotateReports(ctx, s3Client, cfg.S3Bucket, backupPrefix, cfg.KeepReports, logger); err != nil {
		log.Fatalf("Fehler bei der Rotation alter Backups: %v", err)
	}

	log.Println("Backup erfolgreich abgeschlossen.")
}

// createArchive packt alle CSV-Dateien aus dir in ein tar.gz.
func createArchive(dir string) ([]byte, int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, path := range files {
		if err := addFile(tarWriter, path); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		return nil, 0, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), len(files), nil
}

func addFile(tw *tar.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.Base(path)
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}
