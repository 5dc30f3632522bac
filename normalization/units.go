package normalization

import "strings"

// Канонический словарь единиц измерения
const (
	UnitPiece       = "piece"
	UnitKilogram    = "kilogram"
	UnitGram        = "gram"
	UnitTonne       = "tonne"
	UnitLitre       = "litre"
	UnitMetre       = "metre"
	UnitSquareMetre = "square_metre"
	UnitCubicMetre  = "cubic_metre"
	UnitPack        = "pack"
	UnitBox         = "box"
	UnitSet         = "set"
	UnitPair        = "pair"
	UnitRoll        = "roll"
	UnitHour        = "hour"
)

// unitSynonyms таблица синонимов свободного текста единиц измерения.
// Ключи в нижнем регистре, без точек и лишних пробелов.
var unitSynonyms = map[string]string{
	"piece": UnitPiece, "pieces": UnitPiece, "pc": UnitPiece, "pcs": UnitPiece,
	"ea": UnitPiece, "each": UnitPiece, "unit": UnitPiece, "units": UnitPiece,
	"шт": UnitPiece, "штук": UnitPiece, "штука": UnitPiece,

	"kg": UnitKilogram, "kilogram": UnitKilogram, "kilograms": UnitKilogram,
	"кг": UnitKilogram,
	"g": UnitGram, "gram": UnitGram, "grams": UnitGram, "гр": UnitGram, "г": UnitGram,
	"t": UnitTonne, "ton": UnitTonne, "tonne": UnitTonne, "т": UnitTonne, "тн": UnitTonne,

	"l": UnitLitre, "lt": UnitLitre, "litre": UnitLitre, "liter": UnitLitre,
	"litres": UnitLitre, "liters": UnitLitre, "л": UnitLitre,

	"m": UnitMetre, "metre": UnitMetre, "meter": UnitMetre, "м": UnitMetre,
	"пог м": UnitMetre, "lm": UnitMetre,

	"m2": UnitSquareMetre, "sqm": UnitSquareMetre, "sq m": UnitSquareMetre,
	"square metre": UnitSquareMetre, "square meter": UnitSquareMetre,
	"м2": UnitSquareMetre, "кв м": UnitSquareMetre,

	"m3": UnitCubicMetre, "cbm": UnitCubicMetre, "cu m": UnitCubicMetre,
	"cubic metre": UnitCubicMetre, "cubic meter": UnitCubicMetre,
	"м3": UnitCubicMetre, "куб м": UnitCubicMetre,

	"pack": UnitPack, "pk": UnitPack, "уп": UnitPack, "упак": UnitPack,
	"box": UnitBox, "bx": UnitBox, "кор": UnitBox,
	"set": UnitSet, "компл": UnitSet, "к-т": UnitSet,
	"pair": UnitPair, "pr": UnitPair, "пара": UnitPair,
	"roll": UnitRoll, "рул": UnitRoll,
	"hour": UnitHour, "hr": UnitHour, "ч": UnitHour, "час": UnitHour,
}

// NormalizeUnit приводит свободный текст единицы измерения к каноническому
// словарю. Нераспознанная единица не отклоняет строку: возвращается
// очищенный литерал и resolved=false (корректность цены важнее чистоты
// единицы).
func NormalizeUnit(raw string) (unit string, resolved bool) {
	cleaned := cleanUnit(raw)
	if cleaned == "" {
		return UnitPiece, false
	}
	if canonical, ok := unitSynonyms[cleaned]; ok {
		return canonical, true
	}
	return cleaned, false
}

// cleanUnit нормализует написание: регистр, точки, пробелы
func cleanUnit(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ".", " ")
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.Join(strings.Fields(s), " ")
	return s
}
