package scoring

// Weighted — скорер с весом в комбинированной оценке.
type Weighted struct {
	Scorer Scorer
	Weight float64
}

// Result — разбивка оценки одной категории.
type Result struct {
	// Final — итоговая оценка в [0,1], по ней ранжируются категории.
	Final float64
	// Parts — сырые значения каждого скорера по имени.
	Parts map[string]float64
}

// Engine комбинирует несколько взвешенных скореров.
//
// Итог — средневзвешенное по ГОТОВЫМ скорерам: веса не готовых
// перенормируются на готовые. С одним готовым keyword-скорером итог
// в точности равен его значению, какой бы вес ни был сконфигурирован —
// поэтому прямое попадание категории даёт ровно 1.0.
type Engine struct {
	scorers []Weighted
}

// NewEngine создает движок. Сумма весов обязана быть 1.0 (допуск
// weightEpsilon) — проверяется здесь один раз, а не по месту вызова.
func NewEngine(scorers ...Weighted) (*Engine, error) {
	if len(scorers) == 0 {
		return nil, errNoScorers
	}
	total := 0.0
	for _, w := range scorers {
		if w.Weight < 0 {
			return nil, errNegativeWeight(w)
		}
		total += w.Weight
	}
	if diff := total - 1.0; diff > weightEpsilon || diff < -weightEpsilon {
		return nil, errWeightSum(total)
	}
	return &Engine{scorers: scorers}, nil
}

// Score оценивает соответствие текста категории.
func (e *Engine) Score(text, category string) Result {
	parts := make(map[string]float64, len(e.scorers))

	weightedSum := 0.0
	readyWeight := 0.0
	for _, w := range e.scorers {
		value := w.Scorer.Score(text, category)
		parts[w.Scorer.Name()] = value
		if w.Scorer.Ready() {
			weightedSum += w.Weight * value
			readyWeight += w.Weight
		}
	}

	final := 0.0
	if readyWeight > 0 {
		final = weightedSum / readyWeight
	}

	return Result{Final: final, Parts: parts}
}
