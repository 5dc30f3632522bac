package classification

import "strings"

// Category категория товара из фиксированной закрытой таксономии
type Category string

// Члены таксономии. Unclassified - полноправный член-заглушка:
// невозможность классифицировать не является ошибкой.
const (
	CategoryFasteners    Category = "fasteners"
	CategoryElectrical   Category = "electrical"
	CategoryPlumbing     Category = "plumbing"
	CategoryTools        Category = "tools"
	CategoryTimber       Category = "timber"
	CategoryPaints       Category = "paints_coatings"
	CategoryAdhesives    Category = "adhesives_sealants"
	CategorySafety       Category = "safety"
	CategoryHardware     Category = "hardware"
	CategoryUnclassified Category = "unclassified"
)

// Taxonomy упорядоченный перечень всех членов таксономии
var Taxonomy = []Category{
	CategoryFasteners,
	CategoryElectrical,
	CategoryPlumbing,
	CategoryTools,
	CategoryTimber,
	CategoryPaints,
	CategoryAdhesives,
	CategorySafety,
	CategoryHardware,
	CategoryUnclassified,
}

// categoryAliases альтернативные написания членов таксономии,
// встречающиеся в подсказках AI
var categoryAliases = map[string]Category{
	"fastener":           CategoryFasteners,
	"fasteners":          CategoryFasteners,
	"fixings":            CategoryFasteners,
	"electrical":         CategoryElectrical,
	"electric":           CategoryElectrical,
	"electricals":        CategoryElectrical,
	"plumbing":           CategoryPlumbing,
	"sanitary":           CategoryPlumbing,
	"tools":              CategoryTools,
	"tool":               CategoryTools,
	"timber":             CategoryTimber,
	"lumber":             CategoryTimber,
	"wood":               CategoryTimber,
	"paints":             CategoryPaints,
	"paint":              CategoryPaints,
	"coatings":           CategoryPaints,
	"paints coatings":    CategoryPaints,
	"adhesives":          CategoryAdhesives,
	"adhesive":           CategoryAdhesives,
	"sealants":           CategoryAdhesives,
	"adhesives sealants": CategoryAdhesives,
	"safety":             CategorySafety,
	"ppe":                CategorySafety,
	"hardware":           CategoryHardware,
	"unclassified":       CategoryUnclassified,
	"other":              CategoryUnclassified,
}

// IsValid проверяет принадлежность категории таксономии
func (c Category) IsValid() bool {
	for _, member := range Taxonomy {
		if c == member {
			return true
		}
	}
	return false
}

// normalizeHint приводит подсказку категории к виду ключа алиасов
func normalizeHint(hint string) string {
	s := strings.ToLower(strings.TrimSpace(hint))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "&", " ")
	s = strings.ReplaceAll(s, "/", " ")
	return strings.Join(strings.Fields(s), " ")
}
