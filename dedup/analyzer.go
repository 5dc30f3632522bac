package dedup

import (
	"fmt"
	"log"

	"pricelist/classification"
	"pricelist/normalization/algorithms"
)

// DefaultSimilarityThreshold порог нечеткой схожести названий по умолчанию.
// Подбирается на реальных прайс-листах; всегда берется из конфигурации,
// не зашивается в местах вызова.
const DefaultSimilarityThreshold = 0.88

// ExistingRecord ранее закоммиченная запись прайса, только для чтения.
// Загружается по поставщику и служит эталоном межбатчевой проверки.
type ExistingRecord struct {
	ID   int64
	Name string // нормализованное название
	Unit string
}

// DuplicateGroup группа строк батча, признанных одним товаром.
// Primary - позиция основной записи: максимальная уверенность,
// при равенстве - наименьшая позиция строки.
type DuplicateGroup struct {
	Positions []int `json:"positions"`
	Primary   int   `json:"primary"`
}

// Disposition итог детектора для одной строки батча
type Disposition struct {
	Position        int
	IsPrimary       bool
	PrimaryPosition int   // для внутрибатчевых дублей - позиция основной записи
	ExistingID      int64 // >0 если основная запись совпала с уже закоммиченной
}

// Result результат анализа дубликатов батча
type Result struct {
	Groups       []DuplicateGroup
	Dispositions map[int]Disposition // по позиции строки
}

// Analyzer детектор дубликатов. Ключ схожести: (поставщик, нормализованное
// название, единица). Кандидаты объединяются транзитивно (union-find):
// если A~B и B~C, то A, B и C - одна группа, даже когда A и C напрямую
// не похожи.
type Analyzer struct {
	metrics   *algorithms.SimilarityMetrics
	threshold float64
}

// NewAnalyzer создает детектор с заданным порогом схожести
func NewAnalyzer(threshold float64) *Analyzer {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}
	return &Analyzer{
		metrics:   algorithms.NewSimilarityMetrics(),
		threshold: threshold,
	}
}

// Analyze группирует дубликаты внутри батча и сверяет основные записи
// с уже закоммиченными записями того же поставщика.
func (a *Analyzer) Analyze(records []*classification.ClassifiedRecord, existing []ExistingRecord) *Result {
	parent := make([]int, len(records))
	for i := range parent {
		parent[i] = i
	}

	// Попарное сравнение с транзитивным объединением
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if a.sameProduct(records[i], records[j]) {
				union(parent, i, j)
			}
		}
	}

	// Собираем группы по корню union-find
	clusters := make(map[int][]int)
	for i := range records {
		root := find(parent, i)
		clusters[root] = append(clusters[root], i)
	}

	result := &Result{Dispositions: make(map[int]Disposition, len(records))}

	for _, indices := range clusters {
		primaryIdx := selectPrimary(records, indices)
		primary := records[primaryIdx]

		existingID := a.matchExisting(primary, existing)

		if len(indices) > 1 {
			group := DuplicateGroup{Primary: primary.Position}
			for _, idx := range indices {
				group.Positions = append(group.Positions, records[idx].Position)
			}
			result.Groups = append(result.Groups, group)
		}

		for _, idx := range indices {
			rec := records[idx]
			result.Dispositions[rec.Position] = Disposition{
				Position:        rec.Position,
				IsPrimary:       idx == primaryIdx,
				PrimaryPosition: primary.Position,
				ExistingID:      existingID,
			}
		}
	}

	if len(result.Groups) > 0 {
		log.Printf("[Dedup] Found %d duplicate groups among %d records", len(result.Groups), len(records))
	}

	return result
}

// sameProduct проверяет, описывают ли две записи один товар:
// точное совпадение ключа или нечеткая схожесть названий при
// точном совпадении поставщика и единицы.
func (a *Analyzer) sameProduct(r1, r2 *classification.ClassifiedRecord) bool {
	if r1.SupplierID != r2.SupplierID || r1.Unit != r2.Unit {
		return false
	}
	if r1.Name == r2.Name {
		return true
	}
	return a.metrics.HybridSimilarity(r1.Name, r2.Name) >= a.threshold
}

// matchExisting ищет совпадение с закоммиченной записью того же поставщика
func (a *Analyzer) matchExisting(rec *classification.ClassifiedRecord, existing []ExistingRecord) int64 {
	for _, ex := range existing {
		if ex.Unit != rec.Unit {
			continue
		}
		if ex.Name == rec.Name || a.metrics.HybridSimilarity(ex.Name, rec.Name) >= a.threshold {
			return ex.ID
		}
	}
	return 0
}

// selectPrimary выбирает основную запись группы: максимальная уверенность,
// при равенстве - наименьшая позиция строки
func selectPrimary(records []*classification.ClassifiedRecord, indices []int) int {
	best := indices[0]
	for _, idx := range indices[1:] {
		r := records[idx]
		b := records[best]
		if r.Confidence > b.Confidence || (r.Confidence == b.Confidence && r.Position < b.Position) {
			best = idx
		}
	}
	return best
}

// find находит корень элемента со сжатием пути
func find(parent []int, i int) int {
	for parent[i] != i {
		parent[i] = parent[parent[i]]
		i = parent[i]
	}
	return i
}

// union объединяет множества двух элементов
func union(parent []int, i, j int) {
	ri, rj := find(parent, i), find(parent, j)
	if ri != rj {
		parent[rj] = ri
	}
}

// String описание группы для логов
func (g DuplicateGroup) String() string {
	return fmt.Sprintf("group(primary=%d, rows=%v)", g.Primary, g.Positions)
}
