package normalization

import "testing"

// Тесты нормализации единиц измерения
func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		resolved bool
	}{
		{"pcs", UnitPiece, true},
		{"EA", UnitPiece, true},
		{"шт.", UnitPiece, true},
		{"Штука", UnitPiece, true},
		{"kg", UnitKilogram, true},
		{"КГ", UnitKilogram, true},
		{"m2", UnitSquareMetre, true},
		{"кв.м", UnitSquareMetre, true},
		{"sq. m", UnitSquareMetre, true},
		{"упак", UnitPack, true},
		{"к-т", UnitSet, true},
		{"пог. м", UnitMetre, true},

		// Нераспознанные единицы сохраняются как очищенный литерал
		{"bundle", "bundle", false},
		{"мешок", "мешок", false},

		// Пустая единица по умолчанию piece
		{"", UnitPiece, false},
		{"   ", UnitPiece, false},
	}

	for _, tt := range tests {
		unit, resolved := NormalizeUnit(tt.input)
		if unit != tt.expected || resolved != tt.resolved {
			t.Errorf("NormalizeUnit(%q) = (%q, %v), want (%q, %v)",
				tt.input, unit, resolved, tt.expected, tt.resolved)
		}
	}
}

// Тест идемпотентности: канонические единицы нормализуются в себя
func TestNormalizeUnit_CanonicalStable(t *testing.T) {
	canonical := []string{UnitPiece, UnitKilogram, UnitLitre, UnitMetre, UnitPack, UnitBox, UnitSet, UnitPair, UnitRoll, UnitHour}
	for _, unit := range canonical {
		result, _ := NormalizeUnit(unit)
		if result != unit {
			t.Errorf("NormalizeUnit(%q) = %q, canonical unit should be stable", unit, result)
		}
	}
}
