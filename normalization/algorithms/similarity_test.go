package algorithms

import "testing"

// Тесты биграммной схожести
func TestBigramSimilarity(t *testing.T) {
	sm := NewSimilarityMetrics()

	if sim := sm.BigramSimilarity("саморез", "саморез"); sim != 1.0 {
		t.Errorf("Expected similarity 1.0 for identical strings, got %f", sim)
	}
	if sim := sm.BigramSimilarity("саморез", "гайка"); sim > 0.2 {
		t.Errorf("Expected low similarity for unrelated strings, got %f", sim)
	}
	if sim := sm.BigramSimilarity("", ""); sim != 1.0 {
		t.Errorf("Expected similarity 1.0 for two empty strings, got %f", sim)
	}
	if sim := sm.BigramSimilarity("болт", ""); sim != 0.0 {
		t.Errorf("Expected similarity 0.0 against empty string, got %f", sim)
	}
}

// Тесты токенного Жаккара
func TestTokenJaccard(t *testing.T) {
	sm := NewSimilarityMetrics()

	// Перестановка слов не меняет множество токенов
	sim := sm.TokenJaccard("болт м8 оцинкованный", "оцинкованный болт м8")
	if sim != 1.0 {
		t.Errorf("TokenJaccard for word permutation = %f, want 1.0", sim)
	}

	sim = sm.TokenJaccard("болт м8", "болт м10")
	if sim <= 0.0 || sim >= 1.0 {
		t.Errorf("TokenJaccard for partial overlap = %f, want value in (0, 1)", sim)
	}
}

// Тесты расстояния Дамерау-Левенштейна
func TestDamerauLevenshteinDistance(t *testing.T) {
	sm := NewSimilarityMetrics()

	tests := []struct {
		s1, s2   string
		expected int
	}{
		{"болт", "болт", 0},
		{"болт", "болты", 1},
		{"саморез", "самовез", 1},
		{"болт", "блот", 1}, // транспозиция
		{"", "abc", 3},
		{"abc", "", 3},
	}

	for _, tt := range tests {
		result := sm.DamerauLevenshteinDistance(tt.s1, tt.s2)
		if result != tt.expected {
			t.Errorf("DamerauLevenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, result, tt.expected)
		}
	}
}

// Тесты гибридной метрики
func TestHybridSimilarity(t *testing.T) {
	sm := NewSimilarityMetrics()

	if sim := sm.HybridSimilarity("Саморез 3.5x45", "саморез 3.5x45  "); sim != 1.0 {
		t.Errorf("Expected 1.0 after case/space normalization, got %f", sim)
	}

	// Разница только в пунктуации остается выше порога дубликата
	sim := sm.HybridSimilarity("саморез 3.5x45 универсальный", "саморез 3,5x45 универсальный")
	if sim < 0.88 {
		t.Errorf("HybridSimilarity for punctuation-only difference = %f, want >= 0.88", sim)
	}

	// Разные товары далеко ниже порога
	sim = sm.HybridSimilarity("саморез по дереву 3.5x45", "краска фасадная белая 10л")
	if sim >= 0.5 {
		t.Errorf("HybridSimilarity for unrelated names = %f, want < 0.5", sim)
	}

	if sim := sm.HybridSimilarity("болт", ""); sim != 0.0 {
		t.Errorf("Expected 0.0 against empty string, got %f", sim)
	}
}

// Тест симметричности метрик
func TestHybridSimilarity_Symmetric(t *testing.T) {
	sm := NewSimilarityMetrics()

	a, b := "гайка м8 din 934", "гайка м8 din 933"
	if s1, s2 := sm.HybridSimilarity(a, b), sm.HybridSimilarity(b, a); s1 != s2 {
		t.Errorf("HybridSimilarity is not symmetric: %f vs %f", s1, s2)
	}
}
