// Package catalog превращает сырой листинг S3 в индекс стикеров по категориям.
//
// Категория — это папка первого уровня под корневым префиксом bucket.
// Снапшот индекса иммутабелен: после сборки он только читается и целиком
// заменяется новым при перестройке.
package catalog

import "sort"

// FileRecord — один объект хранилища, прошедший фильтры листинга.
//
// Записи транзиентны: живут только на время сборки снапшота.
type FileRecord struct {
	ObjectKey    string
	Category     string
	Filename     string
	URL          string
	Size         int64
	LastModified string // ISO-8601 (RFC3339), пустая строка если хранилище не сообщило время
	Extension    string
}

// Meta — провенанс снапшота. Сериализуется в секцию "metadata" JSON-кэша.
type Meta struct {
	GeneratedAt      string `json:"generated_at"`
	TotalCategories  int    `json:"total_categories"`
	TotalFiles       int    `json:"total_files"`
	SourceDescriptor string `json:"source_descriptor"`
	Bucket           string `json:"bucket,omitempty"`
	Endpoint         string `json:"endpoint,omitempty"`
	RootPrefix       string `json:"root_prefix,omitempty"`
}

// Snapshot — полный иммутабельный индекс: категория -> отсортированные URL.
//
// Инварианты:
//   - URL внутри категории отсортированы лексикографически;
//   - TotalFiles == сумма длин всех списков;
//   - TotalCategories == количество ключей в Categories.
type Snapshot struct {
	Meta       Meta                `json:"metadata"`
	Categories map[string][]string `json:"categories"`
}

// CategoryNames возвращает имена категорий в отсортированном порядке.
func (s *Snapshot) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// URLs возвращает список URL категории (nil если категории нет).
func (s *Snapshot) URLs(category string) []string {
	return s.Categories[category]
}

// IsEmpty сообщает что в индексе нет ни одной категории.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Categories) == 0
}
