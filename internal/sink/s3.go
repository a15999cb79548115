package sink

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	Region    string `json:"region" yaml:"region"`
	AccessKey string `json:"access_key" yaml:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key"`
	Bucket    string `json:"bucket" yaml:"bucket"`
	Prefix    string `json:"prefix" yaml:"prefix"`
	UseSSL    bool   `json:"use_ssl" yaml:"use_ssl"`
}

// S3Sink кладёт схемы объектами <prefix>/<file_path>. Существующий объект
// перед перезаписью копируется в <key>.backup; отсутствие объекта не ошибка.
type S3Sink struct {
	client   *minio.Client
	bucket   string
	region   string
	prefix   string
	initOnce sync.Once
	initErr  error
}

func NewS3Sink(cfg S3Config) (*S3Sink, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Sink{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
	}, nil
}

func (s *S3Sink) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// ObjectKey — ключ объекта для пути файла.
func (s *S3Sink) ObjectKey(filePath string) string {
	return objectKey(s.prefix, filePath)
}

func objectKey(prefix, filePath string) string {
	p := strings.TrimLeft(path.Clean("/"+strings.ReplaceAll(filePath, "\\", "/")), "/")
	if prefix == "" {
		return p
	}
	return prefix + "/" + p
}

func (s *S3Sink) SyncToFiles(ctx context.Context, items []Item) (Report, error) {
	var rep Report
	if err := s.ensureBucket(ctx); err != nil {
		return rep, fmt.Errorf("ensure bucket: %w", err)
	}
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if strings.TrimSpace(it.FilePath) == "" || it.SchemaText == "" {
			rep.fail(it, "%s: missing file path or content", it.ModelName)
			continue
		}
		key := s.ObjectKey(it.FilePath)

		backup := ""
		if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err == nil {
			backup = key + BackupSuffix
			_, err := s.client.CopyObject(ctx,
				minio.CopyDestOptions{Bucket: s.bucket, Object: backup},
				minio.CopySrcOptions{Bucket: s.bucket, Object: key},
			)
			if err != nil {
				rep.fail(it, "%s: backup: %v", it.ModelName, err)
				continue
			}
		} else if minio.ToErrorResponse(err).Code != "NoSuchKey" {
			rep.fail(it, "%s: %v", it.ModelName, err)
			continue
		}

		body := []byte(it.SchemaText)
		_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
			ContentType: "text/x-python; charset=utf-8",
		})
		if err != nil {
			rep.fail(it, "%s: %v", it.ModelName, err)
			continue
		}
		sum := sha256.Sum256(body)
		rep.ok(Result{ModelName: it.ModelName, FilePath: it.FilePath, SHA256: hex.EncodeToString(sum[:]), Backup: backup})
	}
	return rep, nil
}
