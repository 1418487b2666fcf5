// Package recommend подбирает стикеры под свободный текст пользователя.
//
// Рекомендер держит иммутабельный снапшот индекса категорий и атомарно
// заменяет его при перестройке: конкурентные запросы читают старый
// снапшот до завершения свопа и не требуют синхронизации сверх него.
package recommend

// Источники рекомендации.
const (
	// SourceMatched — категория выбрана по положительному скору.
	SourceMatched = "matched"
	// SourceRandomFill — случайное добитие до top_k при нехватке матчей.
	SourceRandomFill = "random_fill"
)

// randomFillScore — фиксированный низкий скор случайного добития.
const randomFillScore = 0.1

// Recommendation — один рекомендованный стикер.
type Recommendation struct {
	URL           string  `json:"url"`
	Category      string  `json:"category"`
	Score         float64 `json:"score"`
	KeywordScore  float64 `json:"keyword_score"`
	SemanticScore float64 `json:"semantic_score"` // Зарезервировано, сегодня всегда 0.0
	Rank          int     `json:"rank"`           // Позиция в выдаче, с единицы
	Source        string  `json:"source"`
}

// ScoreResult — оценка одной категории. Используется внутри выбора и
// отдаётся наружу диагностикой /scores.
type ScoreResult struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Stats — статистика рекомендера для /status.
type Stats struct {
	TotalCategories  int    `json:"total_categories"`
	TotalFiles       int    `json:"total_files"`
	LoadedAt         string `json:"metadata_loaded_at,omitempty"`
	SourceDescriptor string `json:"source_descriptor,omitempty"`
}
