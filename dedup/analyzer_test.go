package dedup

import (
	"testing"

	"pricelist/classification"
	"pricelist/normalization"
)

func record(position int, name, unit string, confidence float64) *classification.ClassifiedRecord {
	return &classification.ClassifiedRecord{
		StandardizedRecord: &normalization.StandardizedRecord{
			Position:   position,
			Name:       name,
			PriceCents: 1000,
			Currency:   "RUB",
			Unit:       unit,
			SupplierID: 1,
			Confidence: confidence,
		},
		Category: classification.CategoryFasteners,
		Source:   classification.SourceKeywordRule,
	}
}

// Тест точных дубликатов: одинаковый ключ (поставщик, название, единица)
func TestAnalyzer_ExactDuplicates(t *testing.T) {
	a := NewAnalyzer(DefaultSimilarityThreshold)

	records := []*classification.ClassifiedRecord{
		record(1, "саморез по дереву 3.5x45", normalization.UnitPack, 0.7),
		record(2, "саморез по дереву 3.5x45", normalization.UnitPack, 0.9),
		record(3, "краска фасадная белая", normalization.UnitLitre, 0.8),
	}

	result := a.Analyze(records, nil)

	if len(result.Groups) != 1 {
		t.Fatalf("Groups = %d, want 1", len(result.Groups))
	}
	if result.Groups[0].Primary != 2 {
		t.Errorf("Primary = %d, want 2 (highest confidence)", result.Groups[0].Primary)
	}

	if !result.Dispositions[2].IsPrimary {
		t.Error("Row 2 should be primary")
	}
	if result.Dispositions[1].IsPrimary {
		t.Error("Row 1 should not be primary")
	}
	if result.Dispositions[1].PrimaryPosition != 2 {
		t.Errorf("Row 1 PrimaryPosition = %d, want 2", result.Dispositions[1].PrimaryPosition)
	}
	if !result.Dispositions[3].IsPrimary {
		t.Error("Unique row 3 should be its own primary")
	}
}

// Тест выбора основной записи при равной уверенности: наименьшая позиция
func TestAnalyzer_PrimaryTieBreaksByPosition(t *testing.T) {
	a := NewAnalyzer(DefaultSimilarityThreshold)

	records := []*classification.ClassifiedRecord{
		record(5, "гайка м8", normalization.UnitPiece, 0.8),
		record(2, "гайка м8", normalization.UnitPiece, 0.8),
		record(9, "гайка м8", normalization.UnitPiece, 0.8),
	}

	result := a.Analyze(records, nil)

	if len(result.Groups) != 1 {
		t.Fatalf("Groups = %d, want 1", len(result.Groups))
	}
	if result.Groups[0].Primary != 2 {
		t.Errorf("Primary = %d, want 2 (earliest position on tie)", result.Groups[0].Primary)
	}
}

// Тест транзитивного объединения: A похож на B, B похож на C,
// A и C напрямую не похожи - все три оказываются одной группой
func TestAnalyzer_TransitiveGrouping(t *testing.T) {
	a := NewAnalyzer(0.55)

	rA := record(1, "productaaa", normalization.UnitPiece, 0.9)
	rB := record(2, "productaab", normalization.UnitPiece, 0.8)
	rC := record(3, "productabb", normalization.UnitPiece, 0.7)

	// Предусловие: края цепочки напрямую ниже порога
	if a.sameProduct(rA, rC) {
		t.Fatal("precondition failed: A and C should not match directly")
	}
	if !a.sameProduct(rA, rB) || !a.sameProduct(rB, rC) {
		t.Fatal("precondition failed: adjacent pairs should match")
	}

	result := a.Analyze([]*classification.ClassifiedRecord{rA, rB, rC}, nil)

	if len(result.Groups) != 1 {
		t.Fatalf("Groups = %d, want 1 (transitive closure)", len(result.Groups))
	}
	if len(result.Groups[0].Positions) != 3 {
		t.Errorf("Group size = %d, want 3", len(result.Groups[0].Positions))
	}
	if result.Groups[0].Primary != 1 {
		t.Errorf("Primary = %d, want 1 (highest confidence)", result.Groups[0].Primary)
	}
}

// Тест несовпадения единицы измерения: не дубликаты при одинаковом названии
func TestAnalyzer_DifferentUnit(t *testing.T) {
	a := NewAnalyzer(DefaultSimilarityThreshold)

	records := []*classification.ClassifiedRecord{
		record(1, "профиль алюминиевый", normalization.UnitMetre, 0.9),
		record(2, "профиль алюминиевый", normalization.UnitPiece, 0.9),
	}

	result := a.Analyze(records, nil)

	if len(result.Groups) != 0 {
		t.Errorf("Groups = %d, want 0 (different units are different products)", len(result.Groups))
	}
	if !result.Dispositions[1].IsPrimary || !result.Dispositions[2].IsPrimary {
		t.Error("Both rows should be their own primaries")
	}
}

// Тест сверки с закоммиченными записями поставщика
func TestAnalyzer_MatchExisting(t *testing.T) {
	a := NewAnalyzer(DefaultSimilarityThreshold)

	records := []*classification.ClassifiedRecord{
		record(1, "саморез по дереву 3.5x45", normalization.UnitPack, 0.9),
		record(2, "новый товар без совпадений", normalization.UnitPiece, 0.9),
	}
	existing := []ExistingRecord{
		{ID: 42, Name: "саморез по дереву 3.5x45", Unit: normalization.UnitPack},
		{ID: 43, Name: "саморез по дереву 3.5x45", Unit: normalization.UnitPiece}, // другая единица
	}

	result := a.Analyze(records, existing)

	if result.Dispositions[1].ExistingID != 42 {
		t.Errorf("Row 1 ExistingID = %d, want 42", result.Dispositions[1].ExistingID)
	}
	if result.Dispositions[2].ExistingID != 0 {
		t.Errorf("Row 2 ExistingID = %d, want 0", result.Dispositions[2].ExistingID)
	}
}

// Тест клампа некорректного порога в значение по умолчанию
func TestNewAnalyzer_ThresholdClamp(t *testing.T) {
	for _, threshold := range []float64{0, -1, 1.5} {
		a := NewAnalyzer(threshold)
		if a.threshold != DefaultSimilarityThreshold {
			t.Errorf("NewAnalyzer(%g) threshold = %g, want default %g", threshold, a.threshold, DefaultSimilarityThreshold)
		}
	}
}

// Тест пустого входа
func TestAnalyzer_Empty(t *testing.T) {
	a := NewAnalyzer(DefaultSimilarityThreshold)
	result := a.Analyze(nil, nil)
	if len(result.Groups) != 0 || len(result.Dispositions) != 0 {
		t.Error("Expected empty result for empty input")
	}
}
