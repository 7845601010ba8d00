// Package imagestore реализует хранилище изображений объявлений поверх
// S3-совместимого объектного хранилища. Загруженные файлы сначала попадают
// во временный префикс tmp/ и переносятся в постоянный property/<id>/
// при публикации объявления.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/stepanenkodv/realty-board/internal/config"
)

// MaxImageSize — максимальный размер принимаемого файла, 5 МБ.
const MaxImageSize = 5 << 20

// ErrTooLarge возвращается для файлов больше MaxImageSize.
var ErrTooLarge = errors.New("image exceeds size limit")

// ErrBadContentType возвращается для типов вне списка допустимых.
var ErrBadContentType = errors.New("unsupported content type")

// ErrNotTemporary возвращается при попытке перенести объект вне tmp/.
// Ключи приходят из редактируемого клиентом черновика, поэтому переносить
// можно только собственные временные загрузки.
var ErrNotTemporary = errors.New("handle is outside the temporary prefix")

const tmpPrefix = "tmp/"

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Store — клиент объектного хранилища изображений.
type Store struct {
	client *s3.Client
	bucket string
}

// New создаёт Store с подключением к S3-совместимому хранилищу.
func New(ctx context.Context, cfg config.ImageStorage) (*Store, error) {
	const op = "imagestore.New"

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{client: client, bucket: cfg.S3Bucket}, nil
}

// SaveTemporary проверяет размер и тип файла и кладёт его во временный
// префикс. Возвращает непрозрачный ключ, который мастер хранит в черновике.
func (s *Store) SaveTemporary(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	const op = "imagestore.SaveTemporary"

	if size > MaxImageSize {
		return "", fmt.Errorf("%s: %w", op, ErrTooLarge)
	}
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%s: %w", op, ErrBadContentType)
	}

	handle := tmpPrefix + uuid.NewString() + ext
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(handle),
		Body:          r,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return handle, nil
}

// MoveToPermanent переносит временный объект в постоянный префикс
// объявления и возвращает постоянный ключ.
func (s *Store) MoveToPermanent(ctx context.Context, handle string, propertyID int) (string, error) {
	const op = "imagestore.MoveToPermanent"

	// CopySource подставляется в URL запроса, поэтому сегменты ".."
	// недопустимы даже внутри tmp/.
	if !strings.HasPrefix(handle, tmpPrefix) || strings.Contains(handle, "..") {
		return "", fmt.Errorf("%s: %w", op, ErrNotTemporary)
	}

	permanent := fmt.Sprintf("property/%d/%s", propertyID, uuid.NewString()+extOf(handle))
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(s.bucket + "/" + handle),
		Key:        aws.String(permanent),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(handle),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return permanent, nil
}

// Delete удаляет объект по ключу. Отсутствие объекта не считается ошибкой.
func (s *Store) Delete(ctx context.Context, handle string) error {
	const op = "imagestore.Delete"

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(handle),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SweepTemporaryOlderThan удаляет временные объекты, загруженные до cutoff.
// Опубликованные изображения уже перенесены из tmp/, поэтому всё оставшееся
// старше cutoff — осиротевшие загрузки брошенных черновиков.
func (s *Store) SweepTemporaryOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	const op = "imagestore.SweepTemporaryOlderThan"

	removed := 0
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(tmpPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return removed, fmt.Errorf("%s: %w", op, err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
				continue
			}
			if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			}); err != nil {
				return removed, fmt.Errorf("%s: %w", op, err)
			}
			removed++
		}
	}
	return removed, nil
}

func extOf(key string) string {
	for i := len(key) - 1; i >= 0 && key[i] != '/'; i-- {
		if key[i] == '.' {
			return key[i:]
		}
	}
	return ""
}
