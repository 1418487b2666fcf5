// Package scoring вычисляет степень соответствия текста категориям стикеров.
//
// Движок собирается из взвешенных скореров. Сегодня реальный скорер один —
// по ключевым словам; слот семантического скоринга зарезервирован и
// отдаёт 0, но интерфейс не предполагает единственность скорера.
package scoring

import (
	"math"
	"strings"

	"github.com/ilkoid/sably/pkg/emotion"
)

// weightEpsilon — допуск при проверке суммы весов.
const weightEpsilon = 0.001

// Scorer оценивает соответствие текста и категории числом в [0,1].
type Scorer interface {
	// Name — имя скорера в разбивке результата ("keyword", "semantic").
	Name() string
	// Ready сообщает даёт ли скорер осмысленные значения. Не готовые
	// скореры исключаются из комбинированной оценки.
	Ready() bool
	Score(text, category string) float64
}

// KeywordScorer — скоринг по прямому вхождению и словарю эмоций.
//
// Алгоритм:
//  1. имя категории как подстрока текста -> directBonus (прямое попадание);
//  2. иначе по каждой эмоции, чья метка входит в имя категории:
//     доля совпавших ключевых слов, обрезанная единицей и умноженная
//     на emotionBonus; берётся максимум по таким эмоциям;
//  3. ничего не совпало -> 0.
type KeywordScorer struct {
	dict         *emotion.Dictionary
	directBonus  float64
	emotionBonus float64
}

// NewKeywordScorer создает скорер со словарём и бонусами из конфига.
func NewKeywordScorer(dict *emotion.Dictionary, directBonus, emotionBonus float64) *KeywordScorer {
	return &KeywordScorer{
		dict:         dict,
		directBonus:  directBonus,
		emotionBonus: emotionBonus,
	}
}

func (s *KeywordScorer) Name() string { return "keyword" }
func (s *KeywordScorer) Ready() bool  { return true }

// Score возвращает значение в [0,1].
func (s *KeywordScorer) Score(text, category string) float64 {
	textLower := strings.ToLower(text)
	categoryLower := strings.ToLower(category)

	// 1. Прямое вхождение имени категории
	if strings.Contains(textLower, categoryLower) {
		return s.directBonus
	}

	// 2. Матчинг по словарю эмоций
	maxEmotionScore := 0.0
	for _, entry := range s.dict.Entries() {
		if !strings.Contains(categoryLower, strings.ToLower(entry.Label)) {
			continue
		}

		matched := 0
		for _, keyword := range entry.Keywords {
			if strings.Contains(textLower, strings.ToLower(keyword)) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		ratio := math.Min(float64(matched)/float64(len(entry.Keywords)), 1.0)
		score := ratio * s.emotionBonus
		if score > maxEmotionScore {
			maxEmotionScore = score
		}
	}

	return maxEmotionScore
}

// SemanticStub — зарезервированный слот семантического скоринга.
//
// Настоящий embedding-скорер сюда пока не подключён: слот держит вес
// в конфиге, но в комбинированную оценку не входит (Ready() == false).
type SemanticStub struct{}

func (SemanticStub) Name() string              { return "semantic" }
func (SemanticStub) Ready() bool               { return false }
func (SemanticStub) Score(_, _ string) float64 { return 0.0 }
