package recommend

import (
	"math/rand"
	"time"
)

// Rand — источник случайности для выбора URL и перемешивания категорий.
//
// Вынесен в интерфейс чтобы тесты могли подставить детерминированную
// последовательность и проверять точный порядок выбора.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand возвращает источник на math/rand с затравкой от времени.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
