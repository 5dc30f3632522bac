package classification

import (
	"strings"
	"sync"

	"github.com/kljensen/snowball"

	"pricelist/normalization"
	"pricelist/normalization/algorithms"
)

// ClassificationSource источник решения классификатора
type ClassificationSource string

const (
	// SourceAIHint категория взята из подсказки AI-извлечения
	SourceAIHint ClassificationSource = "ai_hint"
	// SourceKeywordRule категория назначена таблицей ключевых слов
	SourceKeywordRule ClassificationSource = "keyword_rule"
	// SourceUnclassified ни один источник не дал категорию
	SourceUnclassified ClassificationSource = "unclassified"
)

// ClassifiedRecord стандартизированная запись с назначенной категорией.
// Инвариант: Category всегда член таксономии, источник всегда заполнен.
type ClassifiedRecord struct {
	*normalization.StandardizedRecord
	Category Category             `json:"category"`
	Source   ClassificationSource `json:"classification_source"`
}

// KeywordRule одно правило таблицы ключевых слов
type KeywordRule struct {
	Category Category
	Keywords []string
}

// defaultKeywordRules таблица правил в порядке приоритета.
// Порядок - часть контракта: выигрывает первое совпавшее правило,
// поэтому таблица хранится срезом, не отображением.
var defaultKeywordRules = []KeywordRule{
	{CategoryFasteners, []string{"screw", "bolt", "nut", "washer", "rivet", "anchor", "nail", "саморез", "болт", "гайка", "шайба"}},
	{CategorySafety, []string{"glove", "helmet", "goggles", "respirator", "harness", "vest", "каска", "перчатки"}},
	{CategoryElectrical, []string{"cable", "wire", "socket", "switch", "breaker", "fuse", "lamp", "кабель", "провод", "розетка"}},
	{CategoryPlumbing, []string{"pipe", "valve", "fitting", "coupling", "faucet", "gasket", "труба", "кран", "фитинг"}},
	{CategoryAdhesives, []string{"glue", "adhesive", "sealant", "silicone", "epoxy", "клей", "герметик"}},
	{CategoryPaints, []string{"paint", "primer", "varnish", "enamel", "lacquer", "краска", "грунтовка", "лак"}},
	{CategoryTimber, []string{"plywood", "timber", "lumber", "board", "plank", "osb", "фанера", "брус", "доска"}},
	{CategoryTools, []string{"drill", "hammer", "wrench", "saw", "screwdriver", "pliers", "дрель", "молоток", "ключ"}},
	{CategoryHardware, []string{"hinge", "bracket", "handle", "lock", "latch", "петля", "ручка", "замок"}},
}

// Classifier детерминированный классификатор категорий.
// Порядок решения: подсказка AI, затем таблица ключевых слов,
// затем unclassified. Всегда завершается непустой категорией.
type Classifier struct {
	rules         []KeywordRule
	metrics       *algorithms.SimilarityMetrics
	hintThreshold float64

	stemMu    sync.RWMutex
	stemCache map[string]string
}

// NewClassifier создает классификатор со стандартной таблицей правил
func NewClassifier() *Classifier {
	return &Classifier{
		rules:         defaultKeywordRules,
		metrics:       algorithms.NewSimilarityMetrics(),
		hintThreshold: 0.8,
		stemCache:     make(map[string]string),
	}
}

// Classify назначает записи категорию. Тотальная функция: никогда не
// возвращает ошибку и никогда не оставляет категорию пустой.
func (c *Classifier) Classify(rec *normalization.StandardizedRecord, categoryHint string) *ClassifiedRecord {
	if category, ok := c.matchHint(categoryHint); ok {
		return &ClassifiedRecord{StandardizedRecord: rec, Category: category, Source: SourceAIHint}
	}

	if category, ok := c.matchKeywordRules(rec.Name); ok {
		return &ClassifiedRecord{StandardizedRecord: rec, Category: category, Source: SourceKeywordRule}
	}

	return &ClassifiedRecord{StandardizedRecord: rec, Category: CategoryUnclassified, Source: SourceUnclassified}
}

// matchHint сопоставляет подсказку AI с членом таксономии.
// Сначала точное совпадение по алиасам, затем нечеткое по схожести.
func (c *Classifier) matchHint(hint string) (Category, bool) {
	normalized := normalizeHint(hint)
	if normalized == "" {
		return "", false
	}

	if category, ok := categoryAliases[normalized]; ok {
		return category, true
	}

	// Почти точное совпадение: опечатки и вариации написания.
	// Подсказка обычно одно слово, поэтому сравниваем посимвольными
	// метриками без токенного Жаккара.
	bestScore := 0.0
	var bestCategory Category
	for alias, category := range categoryAliases {
		score := (c.metrics.BigramSimilarity(normalized, alias) +
			c.metrics.DamerauLevenshteinSimilarity(normalized, alias)) / 2.0
		if score > bestScore {
			bestScore = score
			bestCategory = category
		}
	}
	if bestScore >= c.hintThreshold {
		return bestCategory, true
	}

	return "", false
}

// matchKeywordRules проверяет правила в фиксированном порядке приоритета
func (c *Classifier) matchKeywordRules(normalizedName string) (Category, bool) {
	tokens := strings.Fields(normalizedName)
	stems := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		stems[c.stem(token)] = true
	}

	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if stems[c.stem(keyword)] {
				return rule.Category, true
			}
		}
	}

	return "", false
}

// stem возвращает основу слова (Snowball) с кэшированием.
// Для слов, которые стеммер не берет, возвращается слово как есть.
func (c *Classifier) stem(word string) string {
	word = strings.ToLower(word)

	c.stemMu.RLock()
	cached, ok := c.stemCache[word]
	c.stemMu.RUnlock()
	if ok {
		return cached
	}

	language := "english"
	if isCyrillic(word) {
		language = "russian"
	}
	stemmed, err := snowball.Stem(word, language, true)
	if err != nil {
		stemmed = word
	}

	c.stemMu.Lock()
	c.stemCache[word] = stemmed
	c.stemMu.Unlock()

	return stemmed
}

// isCyrillic проверяет, что слово записано кириллицей
func isCyrillic(word string) bool {
	for _, r := range word {
		if r >= 'а' && r <= 'я' || r == 'ё' {
			return true
		}
	}
	return false
}
