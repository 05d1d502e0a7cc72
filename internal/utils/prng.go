// internal/utils/prng.go
package utils

import (
	"math/rand"
	"time"
	"wave-director/internal/defs"
)

// RandomSource — минимальный источник случайности, который принимают
// все детерминированные части директора. Тесты подставляют свои реализации.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// PRNGService — это обертка над стандартным генератором случайных чисел Go,
// которая позволяет использовать предсказуемый (seeded) рандом во всей игре.
type PRNGService struct {
	seed int64
	rng  *rand.Rand
}

// NewPRNGService создает новый экземпляр сервиса с указанным сидом.
// Если сид равен 0, используется текущее время.
func NewPRNGService(seed int64) *PRNGService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	source := rand.NewSource(seed)
	return &PRNGService{
		seed: seed,
		rng:  rand.New(source),
	}
}

// Seed возвращает сид, с которым был создан сервис.
func (s *PRNGService) Seed() int64 {
	return s.seed
}

// Intn возвращает случайное целое число в диапазоне [0, n).
func (s *PRNGService) Intn(n int) int {
	return s.rng.Intn(n)
}

// Float64 возвращает случайное число с плавающей точкой в диапазоне [0.0, 1.0).
func (s *PRNGService) Float64() float64 {
	return s.rng.Float64()
}

// IntRange returns a uniform integer in [min, max], both inclusive.
func IntRange(r RandomSource, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

// Uniform returns a uniform float in [lo, hi).
func Uniform(r RandomSource, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// ChooseWeighted выполняет взвешенный случайный выбор из набора построений.
// Он суммирует все веса, выбирает случайное число в этом диапазоне,
// а затем находит элемент, которому соответствует это число.
func ChooseWeighted(r RandomSource, entries []defs.FormationDefinition) defs.FormationType {
	if len(entries) == 0 {
		return defs.FormationLine
	}

	totalWeight := 0
	for _, entry := range entries {
		totalWeight += entry.Weight
	}

	if totalWeight <= 0 {
		// Если сумма весов некорректна, возвращаем первый элемент по умолчанию
		return entries[0].Type
	}

	n := r.Intn(totalWeight)
	upto := 0
	for _, entry := range entries {
		if upto+entry.Weight > n {
			return entry.Type
		}
		upto += entry.Weight
	}

	return entries[len(entries)-1].Type
}
