// "Тупой" клиент хранилища. Разбор каталога стикеров живёт отдельно в pkg/catalog.

package s3storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ilkoid/sably/pkg/config"
)

// ErrListing — маркер ошибки листинга удалённого хранилища.
//
// Любая транспортная ошибка или ошибка авторизации при обходе bucket
// оборачивается в ErrListing и фатальна для всей перестройки индекса:
// частичный листинг не должен превращаться в частичный индекс.
var ErrListing = errors.New("remote listing failed")

// ClientInterface определяет интерфейс для S3 клиента.
// Используется для мокания в тестах и внедрения зависимостей.
type ClientInterface interface {
	WalkObjects(ctx context.Context, prefix string, fn func(StoredObject) error) error
	PublicURL(key string) string
}

// StoredObject - сырой объект из S3
type StoredObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

type Client struct {
	api          *minio.Client
	bucket       string
	endpoint     string
	useSSL       bool
	customDomain string
}

// Проверка что Client реализует ClientInterface
var _ ClientInterface = (*Client)(nil)

// New создает клиент, используя наш конфиг
func New(cfg config.S3Config) (*Client, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		api:          minioClient,
		bucket:       cfg.Bucket,
		endpoint:     cfg.Endpoint,
		useSSL:       cfg.UseSSL,
		customDomain: cfg.CustomDomain,
	}, nil
}

// WalkObjects лениво обходит ВСЕ объекты по префиксу и вызывает fn для каждого.
//
// Листинг нерестартуемый: первая же ошибка (транспорт, авторизация,
// отмена контекста, ошибка fn) прерывает обход целиком. Возвращаемая
// ошибка листинга оборачивается в ErrListing.
//
// Rule 11: context.Context пробрасывается в minio для отмены.
func (c *Client) WalkObjects(ctx context.Context, prefix string, fn func(StoredObject) error) error {
	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}

	for obj := range c.api.ListObjects(ctx, c.bucket, opts) {
		if obj.Err != nil {
			return fmt.Errorf("%w: bucket %q prefix %q: %v", ErrListing, c.bucket, prefix, obj.Err)
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrListing, err)
		}
		if err := fn(StoredObject{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		}); err != nil {
			return err
		}
	}

	return ctx.Err()
}

// PublicURL генерирует публичный URL объекта.
//
// При заданном custom_domain используется он, иначе стандартная схема
// {bucket}.{endpoint}/{key}.
func (c *Client) PublicURL(key string) string {
	scheme := "http"
	if c.useSSL {
		scheme = "https"
	}
	if c.customDomain != "" {
		return fmt.Sprintf("%s://%s/%s", scheme, strings.TrimSuffix(c.customDomain, "/"), key)
	}
	return fmt.Sprintf("%s://%s.%s/%s", scheme, c.bucket, c.endpoint, key)
}

// Bucket возвращает имя bucket (для провенанса снапшота).
func (c *Client) Bucket() string { return c.bucket }

// Endpoint возвращает endpoint хранилища (для провенанса снапшота).
func (c *Client) Endpoint() string { return c.endpoint }
