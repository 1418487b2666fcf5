package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/ilkoid/sably/pkg/utils"
)

// Builder складывает записи листинга в снапшот индекса.
//
// Группировка идёт в map по категории, порядок поступления записей не
// важен: перед заморозкой списки URL сортируются. Два запуска по одному
// и тому же листингу дают байт-в-байт одинаковую секцию categories
// (отличается только generated_at).
type Builder struct {
	bucket     string
	endpoint   string
	rootPrefix string

	// now подменяется в тестах для детерминированного generated_at.
	now func() time.Time
}

// NewBuilder создает Builder с провенансом источника.
func NewBuilder(bucket, endpoint, rootPrefix string) *Builder {
	return &Builder{
		bucket:     bucket,
		endpoint:   endpoint,
		rootPrefix: rootPrefix,
		now:        time.Now,
	}
}

// Build собирает снапшот из полного набора записей.
//
// Требует материализованный срез: сортировка URL внутри категории
// возможна только когда листинг завершён.
func (b *Builder) Build(records []FileRecord) *Snapshot {
	categories := make(map[string][]string)
	for _, rec := range records {
		categories[rec.Category] = append(categories[rec.Category], rec.URL)
	}

	totalFiles := 0
	for category := range categories {
		sort.Strings(categories[category])
		totalFiles += len(categories[category])
	}

	snap := &Snapshot{
		Meta: Meta{
			GeneratedAt:      b.now().Format(time.RFC3339),
			TotalCategories:  len(categories),
			TotalFiles:       totalFiles,
			SourceDescriptor: fmt.Sprintf("s3://%s/%s@%s", b.bucket, b.rootPrefix, b.endpoint),
			Bucket:           b.bucket,
			Endpoint:         b.endpoint,
			RootPrefix:       b.rootPrefix,
		},
		Categories: categories,
	}

	utils.Info("snapshot built",
		"categories", snap.Meta.TotalCategories,
		"files", snap.Meta.TotalFiles)

	return snap
}
