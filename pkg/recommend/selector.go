package recommend

import (
	"sort"

	"github.com/ilkoid/sably/pkg/catalog"
	"github.com/ilkoid/sably/pkg/scoring"
	"github.com/ilkoid/sably/pkg/utils"
)

// selector превращает снапшот и текст в упорядоченный список рекомендаций.
//
// Машина состояний одного запроса:
//  1. оценить каждую категорию, отсортировать по убыванию скора
//     (при равенстве — по имени категории, чтобы ранжирование было
//     детерминированным);
//  2. идти по списку, брать по одному случайному URL из категорий со
//     скором > 0, пока не наберётся topK;
//  3. при нехватке — перемешать неиспользованные непустые категории и
//     добить выдачу с фиксированным низким скором.
type selector struct {
	engine *scoring.Engine
	rng    Rand
}

// scoreCategories оценивает все категории снапшота.
func (s *selector) scoreCategories(snap *catalog.Snapshot, text string) ([]ScoreResult, map[string]scoring.Result) {
	results := make([]ScoreResult, 0, len(snap.Categories))
	breakdowns := make(map[string]scoring.Result, len(snap.Categories))

	for category := range snap.Categories {
		res := s.engine.Score(text, category)
		results = append(results, ScoreResult{Category: category, Score: res.Final})
		breakdowns[category] = res
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Category < results[j].Category
	})

	return results, breakdowns
}

// pick выполняет полный цикл выбора. snap обязан быть непустым.
func (s *selector) pick(snap *catalog.Snapshot, text string, topK int) []Recommendation {
	scores, breakdowns := s.scoreCategories(snap, text)

	recommendations := make([]Recommendation, 0, topK)
	used := make(map[string]bool, topK)

	// Фаза 1: категории с положительным скором
	for _, sr := range scores {
		if len(recommendations) >= topK {
			break
		}
		if sr.Score <= 0 || used[sr.Category] {
			continue
		}

		url, ok := s.randomURL(snap, sr.Category)
		if !ok {
			continue
		}

		parts := breakdowns[sr.Category].Parts
		recommendations = append(recommendations, Recommendation{
			URL:           url,
			Category:      sr.Category,
			Score:         round3(sr.Score),
			KeywordScore:  round3(parts["keyword"]),
			SemanticScore: round3(parts["semantic"]),
			Rank:          len(recommendations) + 1,
			Source:        SourceMatched,
		})
		used[sr.Category] = true
	}

	// Фаза 2: случайное добитие до topK
	if len(recommendations) < topK {
		remaining := make([]string, 0, len(snap.Categories))
		for category, urls := range snap.Categories {
			if !used[category] && len(urls) > 0 {
				remaining = append(remaining, category)
			}
		}
		// Стабильная база перед перемешиванием: иначе порядок добития
		// зависел бы от обхода map даже при детерминированном Rand.
		sort.Strings(remaining)
		s.rng.Shuffle(len(remaining), func(i, j int) {
			remaining[i], remaining[j] = remaining[j], remaining[i]
		})

		for _, category := range remaining {
			if len(recommendations) >= topK {
				break
			}
			url, ok := s.randomURL(snap, category)
			if !ok {
				continue
			}
			recommendations = append(recommendations, Recommendation{
				URL:          url,
				Category:     category,
				Score:        randomFillScore,
				KeywordScore: randomFillScore,
				Rank:         len(recommendations) + 1,
				Source:       SourceRandomFill,
			})
			used[category] = true
		}
	}

	return recommendations
}

// randomURL берёт равновероятный URL категории.
// Пустая категория логируется и пропускается, наружу не выходит.
func (s *selector) randomURL(snap *catalog.Snapshot, category string) (string, bool) {
	urls := snap.URLs(category)
	if len(urls) == 0 {
		utils.Warn("skipping category without urls", "category", category)
		return "", false
	}
	return urls[s.rng.Intn(len(urls))], true
}

// round3 округляет до трёх знаков — столько отдаём наружу в API.
func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
