package algorithms

import (
	"strings"
	"unicode"
)

// SimilarityMetrics алгоритмы нечеткого сравнения названий товаров.
// Используются детектором дубликатов для сравнения нормализованных
// наименований внутри одного поставщика.
type SimilarityMetrics struct{}

// NewSimilarityMetrics создает новый экземпляр метрик схожести
func NewSimilarityMetrics() *SimilarityMetrics {
	return &SimilarityMetrics{}
}

// NGramSimilarity вычисляет схожесть на основе символьных N-грамм
// n - размер граммы (2 для биграмм, 3 для триграмм)
func (sm *SimilarityMetrics) NGramSimilarity(s1, s2 string, n int) float64 {
	if s1 == s2 {
		return 1.0
	}

	grams1 := sm.generateNGrams(s1, n)
	grams2 := sm.generateNGrams(s2, n)

	if len(grams1) == 0 && len(grams2) == 0 {
		return 1.0
	}
	if len(grams1) == 0 || len(grams2) == 0 {
		return 0.0
	}

	return sm.jaccardIndex(grams1, grams2)
}

// BigramSimilarity вычисляет схожесть на основе биграмм
func (sm *SimilarityMetrics) BigramSimilarity(s1, s2 string) float64 {
	return sm.NGramSimilarity(s1, s2, 2)
}

// generateNGrams генерирует N-граммы из строки
func (sm *SimilarityMetrics) generateNGrams(text string, n int) map[string]int {
	text = strings.ToLower(strings.TrimSpace(text))
	grams := make(map[string]int)

	runes := []rune(text)
	if len(runes) < n {
		// Строка короче граммы - возвращаем саму строку как грамму
		if len(runes) > 0 {
			grams[string(runes)] = 1
		}
		return grams
	}

	for i := 0; i <= len(runes)-n; i++ {
		grams[string(runes[i:i+n])]++
	}

	return grams
}

// TokenJaccard вычисляет индекс Жаккара по множествам токенов
func (sm *SimilarityMetrics) TokenJaccard(s1, s2 string) float64 {
	return sm.jaccardIndex(sm.tokenize(s1), sm.tokenize(s2))
}

// jaccardIndex вычисляет индекс Жаккара для двух множеств
func (sm *SimilarityMetrics) jaccardIndex(set1, set2 map[string]int) float64 {
	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for key := range set1 {
		if _, exists := set2[key]; exists {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// tokenize разбивает строку на токены по небуквенным символам
func (sm *SimilarityMetrics) tokenize(text string) map[string]int {
	text = strings.ToLower(strings.TrimSpace(text))
	tokens := make(map[string]int)

	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, word := range words {
		if len(word) > 0 {
			tokens[word]++
		}
	}

	return tokens
}

// DamerauLevenshteinDistance вычисляет расстояние Дамерау-Левенштейна.
// Учитывает транспозиции соседних символов - частая опечатка ручного
// набора в прайс-листах.
func (sm *SimilarityMetrics) DamerauLevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)

			// Транспозиция
			if i > 1 && j > 1 && r1[i-1] == r2[j-2] && r1[i-2] == r2[j-1] {
				matrix[i][j] = min3(matrix[i][j], matrix[i-2][j-2]+cost, matrix[i][j])
			}
		}
	}

	return matrix[len1][len2]
}

// DamerauLevenshteinSimilarity приводит расстояние к схожести [0,1]
func (sm *SimilarityMetrics) DamerauLevenshteinSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	distance := sm.DamerauLevenshteinDistance(s1, s2)
	maxLen := len([]rune(s1))
	if l2 := len([]rune(s2)); l2 > maxLen {
		maxLen = l2
	}

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// HybridSimilarity комбинированная метрика: среднее биграммной схожести,
// токенного Жаккара и схожести Дамерау-Левенштейна. Равные веса дают
// устойчивость как к перестановке слов, так и к опечаткам.
func (sm *SimilarityMetrics) HybridSimilarity(s1, s2 string) float64 {
	s1 = strings.ToLower(strings.TrimSpace(s1))
	s2 = strings.ToLower(strings.TrimSpace(s2))

	if s1 == s2 {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}

	bigram := sm.BigramSimilarity(s1, s2)
	jaccard := sm.TokenJaccard(s1, s2)
	damerau := sm.DamerauLevenshteinSimilarity(s1, s2)

	return (bigram + jaccard + damerau) / 3.0
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
