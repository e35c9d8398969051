package storage

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"mibig-toxins/config"
)

// ObjectStore ist der Teil des S3-Clients, den Upload und Rotation brauchen.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewS3Client erstellt einen S3-Client für einen S3-kompatiblen Endpunkt.
func NewS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3Key, cfg.S3Secret, "")),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	}), nil
}

// UploadReport lädt einen Report hoch und gibt den Link zurück.
func UploadReport(ctx context.Context, client ObjectStore, endpoint, bucket, key string, data []byte) (string, error) {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(key)),
	})
	if err != nil {
		return "", fmt.Errorf("upload von %s fehlgeschlagen: %w", key, err)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(endpoint, "/"), bucket, key), nil
}

func contentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".csv"):
		return "text/csv"
	case strings.HasSuffix(key, ".gz"):
		return "application/gzip"
	default:
		return "application/octet-stream"
	}
}

// RotateReports behält die keep neuesten Objekte unter prefix und löscht den Rest.
// Ein negatives keep wird wie 0 behandelt.
// Fehler beim Löschen einzelner Objekte werden nur geloggt.
func RotateReports(ctx context.Context, client ObjectStore, bucket, prefix string, keep int, logger *zap.Logger) (int, error) {
	if keep < 0 {
		keep = 0
	}

	var objects []types.Object
	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		objects = append(objects, page.Contents...)
	}

	if len(objects) <= keep {
		logger.Debug("Keine Rotation nötig", zap.Int("objects", len(objects)), zap.Int("keep", keep))
		return 0, nil
	}

	sort.Slice(objects, func(i, j int) bool {
		return aws.ToTime(objects[i].LastModified).After(aws.ToTime(objects[j].LastModified))
	})

	deleted := 0
	for _, obj := range objects[keep:] {
		key := aws.ToString(obj.Key)
		logger.Info("Lösche alten Report", zap.String("key", key))
		if _, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    obj.Key,
		}); err != nil {
			logger.Warn("Fehler beim Löschen", zap.String("key", key), zap.Error(err))
			continue
		}
		deleted++
	}
	return deleted, nil
}
