package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"uni-hris/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() config.StorageConfig {
	return config.StorageConfig{
		Endpoint:     "http://127.0.0.1:9000",
		Region:       "us-east-1",
		Bucket:       "payslips",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		UsePathStyle: true,
		PresignTTL:   5 * time.Minute,
	}
}

func stubSeams(t *testing.T) {
	t.Helper()
	origLoad, origPut, origPresign := loadDefaultAWSConfig, putObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, putObject, presignGetObject = origLoad, origPut, origPresign
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{Region: lo.Region}, nil
	}
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), config.StorageConfig{Region: "us-east-1"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewS3Store_LoadConfigError(t *testing.T) {
	stubSeams(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("boom")
	}

	_, err := NewS3Store(context.Background(), testConfig(), zap.NewNop())
	assert.ErrorContains(t, err, "boom")
}

func TestS3Store_Upload(t *testing.T) {
	stubSeams(t)
	var gotKey, gotType string
	var gotBody []byte
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		gotKey = aws.ToString(in.Key)
		gotType = aws.ToString(in.ContentType)
		gotBody, _ = io.ReadAll(in.Body)
		return &s3.PutObjectOutput{}, nil
	}

	store, err := NewS3Store(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "payslips/2025/03/abc.pdf", "application/pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)

	assert.Equal(t, "payslips/2025/03/abc.pdf", gotKey)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, []byte("%PDF-1.3"), gotBody)
	assert.Equal(t, "http://127.0.0.1:9000/payslips/payslips/2025/03/abc.pdf", url)
}

func TestS3Store_UploadError(t *testing.T) {
	stubSeams(t)
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("access denied")
	}

	store, err := NewS3Store(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "k", "application/pdf", nil)
	assert.ErrorContains(t, err, "access denied")
}

func TestS3Store_PresignGet(t *testing.T) {
	stubSeams(t)
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, 5*time.Minute, po.Expires)
		assert.Equal(t, "payslips", aws.ToString(in.Bucket))
		return &v4.PresignedHTTPRequest{URL: "http://signed/" + aws.ToString(in.Key)}, nil
	}

	store, err := NewS3Store(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)

	url, err := store.PresignGet(context.Background(), "payslips/2025/03/abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://signed/payslips/2025/03/abc.pdf", url)
}

func TestObjectURL(t *testing.T) {
	cfg := config.StorageConfig{Region: "eu-west-1", Bucket: "hr"}
	assert.Equal(t, "https://hr.s3.eu-west-1.amazonaws.com/a/b.pdf", ObjectURL(cfg, "a/b.pdf"))

	cfg.Endpoint = "https://minio.local/"
	assert.Equal(t, "https://hr.minio.local/a.pdf", ObjectURL(cfg, "a.pdf"))

	cfg.UsePathStyle = true
	assert.Equal(t, "https://minio.local/hr/a.pdf", ObjectURL(cfg, "a.pdf"))
}
