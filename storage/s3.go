package storage

import (
	"context"
	"io"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// S3Config beschreibt einen S3-kompatiblen Speicher (z.B. Strato HiDrive, MinIO).
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

// NewS3Client erstellt einen S3-Client mit festem Endpoint und Path-Style-Adressierung.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// ObjectAPI ist der Teil des S3-Clients, den BackupBucket benötigt.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// BackupBucket legt Backups in einem Bucket ab und rotiert sie.
type BackupBucket struct {
	client ObjectAPI
	bucket string
	logger *zap.Logger
}

func NewBackupBucket(client ObjectAPI, bucket string, logger *zap.Logger) *BackupBucket {
	return &BackupBucket{client: client, bucket: bucket, logger: logger}
}

// Upload lädt body unter key hoch.
func (b *BackupBucket) Upload(ctx context.Context, key string, body io.Reader) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return err
	}
	b.logger.Info("Backup hochgeladen", zap.String("bucket", b.bucket), zap.String("key", key))
	return nil
}

// Rotate behält die keep neuesten Objekte unter prefix und löscht den Rest. Zurückgegeben
// werden die gelöschten Keys. Einzelne Löschfehler werden geloggt, brechen aber nicht ab.
func (b *BackupBucket) Rotate(ctx context.Context, prefix string, keep int) ([]string, error) {
	var objects []types.Object
	p := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		objects = append(objects, page.Contents...)
	}

	if len(objects) <= keep {
		b.logger.Info("Keine Rotation nötig", zap.String("prefix", prefix), zap.Int("backups", len(objects)))
		return nil, nil
	}

	sort.Slice(objects, func(i, j int) bool {
		return aws.ToTime(objects[i].LastModified).After(aws.ToTime(objects[j].LastModified))
	})

	var deleted []string
	for _, obj := range objects[keep:] {
		key := aws.ToString(obj.Key)
		_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    obj.Key,
		})
		if err != nil {
			b.logger.Error("Fehler beim Löschen eines alten Backups", zap.String("key", key), zap.Error(err))
			continue
		}
		b.logger.Info("Altes Backup gelöscht", zap.String("key", key))
		deleted = append(deleted, key)
	}
	return deleted, nil
}
