package services

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryStore struct {
	objects map[string][]byte
}

func (m *memoryStore) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryStore) ListObjectsV2(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return &s3.ListObjectsV2Output{}, nil
}

func (m *memoryStore) DeleteObject(context.Context, *s3.DeleteObjectInput, ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return &s3.DeleteObjectOutput{}, nil
}

func TestRunAndPublish(t *testing.T) {
	svc, _ := newTestScanService(t, zap.NewNop())
	svc.Config.S3URL = "https://s3.example.org"
	svc.Config.S3Bucket = "toxins"
	store := &memoryStore{objects: map[string][]byte{}}
	p := NewPublisher(svc, store)

	assert.Nil(t, p.Latest())

	summary, err := p.RunAndPublish(context.Background(), writeCorpus(t, testCorpus), referenceSet())
	require.NoError(t, err)
	assert.Len(t, summary.Toxins, 2)
	assert.True(t, strings.HasPrefix(summary.Link, "https://s3.example.org/toxins/reports/toxins-"))
	assert.Same(t, summary, p.Latest())

	local, err := os.ReadFile(summary.File)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(local), "MIBiG Accession,Organism,Compound Index,Compound Name,Inchikey\n"))

	require.Len(t, store.objects, 1)
	for key, data := range store.objects {
		assert.True(t, strings.HasPrefix(key, "reports/"))
		assert.Equal(t, local, data)
	}
}

func TestRunAndPublish_WithoutStore(t *testing.T) {
	svc, _ := newTestScanService(t, zap.NewNop())
	p := NewPublisher(svc, nil)

	summary, err := p.RunAndPublish(context.Background(), writeCorpus(t, testCorpus), referenceSet())
	require.NoError(t, err)
	assert.Empty(t, summary.Link)
	assert.FileExists(t, summary.File)
}

func TestRunAndPublish_RejectsConcurrentRun(t *testing.T) {
	svc, _ := newTestScanService(t, zap.NewNop())
	p := NewPublisher(svc, nil)

	p.running.Lock()
	defer p.running.Unlock()

	_, err := p.RunAndPublish(context.Background(), writeCorpus(t, testCorpus), referenceSet())
	require.ErrorIs(t, err, ErrScanRunning)
	assert.Nil(t, p.Latest())
}
