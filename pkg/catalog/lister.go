package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ilkoid/sably/pkg/s3storage"
	"github.com/ilkoid/sably/pkg/utils"
)

// Lister обходит удалённое хранилище и отдаёт записи о файлах стикеров.
//
// Правила фильтрации (в порядке применения):
//  1. псевдо-папки (ключ заканчивается на "/") пропускаются;
//  2. расширение должно входить в allow-list (без учёта регистра);
//  3. после отрезания корневого префикса путь должен содержать минимум
//     два сегмента: первый — категория, последний — имя файла.
type Lister struct {
	src        s3storage.ClientInterface
	rootPrefix string
	extensions map[string]struct{}
}

// NewLister создает Lister для корневого префикса с allow-list расширений.
func NewLister(src s3storage.ClientInterface, rootPrefix string, extensions []string) *Lister {
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = struct{}{}
	}
	return &Lister{
		src:        src,
		rootPrefix: rootPrefix,
		extensions: exts,
	}
}

// List выполняет полный обход и возвращает все записи.
//
// Листинг исчерпывающий и нерестартуемый: любая ошибка транспорта
// прерывает обход целиком, частичный результат не возвращается.
// Отмена контекста тоже прерывает обход без побочных эффектов.
func (l *Lister) List(ctx context.Context) ([]FileRecord, error) {
	var records []FileRecord

	err := l.src.WalkObjects(ctx, l.rootPrefix, func(obj s3storage.StoredObject) error {
		rec, ok := l.parse(obj)
		if !ok {
			return nil
		}
		records = append(records, rec)
		if len(records)%50 == 0 {
			utils.Debug("listing in progress", "files", len(records))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.Info("listing complete", "files", len(records), "prefix", l.rootPrefix)
	return records, nil
}

// parse превращает сырой объект в FileRecord. ok=false — объект отфильтрован.
func (l *Lister) parse(obj s3storage.StoredObject) (FileRecord, bool) {
	// Псевдо-папка
	if strings.HasSuffix(obj.Key, "/") {
		return FileRecord{}, false
	}

	ext := strings.ToLower(path.Ext(obj.Key))
	if _, ok := l.extensions[ext]; !ok {
		return FileRecord{}, false
	}

	relative := strings.TrimPrefix(obj.Key, l.rootPrefix)
	parts := strings.Split(relative, "/")
	if len(parts) < 2 {
		return FileRecord{}, false
	}

	return FileRecord{
		ObjectKey:    obj.Key,
		Category:     parts[0],
		Filename:     parts[len(parts)-1],
		URL:          l.src.PublicURL(obj.Key),
		Size:         obj.Size,
		LastModified: FormatModified(obj.LastModified),
		Extension:    ext,
	}, true
}

// FormatModified нормализует отметку времени к ISO-8601 строке.
//
// Хранилища отдают время по-разному: structured timestamp, epoch-секунды
// или уже готовую строку. Нулевое/пустое значение превращается в "".
func FormatModified(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	case int64:
		if t == 0 {
			return ""
		}
		return time.Unix(t, 0).UTC().Format(time.RFC3339)
	case float64:
		if t == 0 {
			return ""
		}
		return time.Unix(int64(t), 0).UTC().Format(time.RFC3339)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", v)
	}
}
