package scoring

import (
	"errors"
	"fmt"
)

var errNoScorers = errors.New("scoring engine requires at least one scorer")

func errNegativeWeight(w Weighted) error {
	return fmt.Errorf("scorer %q has negative weight %v", w.Scorer.Name(), w.Weight)
}

func errWeightSum(total float64) error {
	return fmt.Errorf("scorer weights must sum to 1.0, got %.3f", total)
}
