package normalization

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/currency"

	"pricelist/extraction"
)

// ErrInvalidCurrency ни извлечение, ни поставщик не дали распознаваемый код валюты
var ErrInvalidCurrency = errors.New("currency code is not recognized")

// ErrEmptyName извлечение не дало названия товара
var ErrEmptyName = errors.New("product name is empty")

// StandardizedRecord каноническая форма записи прайс-листа.
// Порождается стандартизатором из ExtractedRecord; исходная запись
// при этом не изменяется. Инварианты: PriceCents >= 0, Currency -
// распознанный трехбуквенный код ISO 4217.
type StandardizedRecord struct {
	Position     int    `json:"position"`
	Name         string `json:"name"`        // нормализованное название товара
	PriceCents   int64  `json:"price_cents"` // цена в минорных единицах
	Currency     string `json:"currency"`    // код ISO 4217
	Unit         string `json:"unit"`        // единица из канонического словаря или литерал
	UnitResolved bool   `json:"unit_resolved"`
	SupplierID   int    `json:"supplier_id"`
	SKU          string `json:"sku,omitempty"`
	FreeSample   bool   `json:"free_sample"`
	Confidence   float64 `json:"confidence"` // уверенность исходного извлечения
}

// Standardizer чистое детерминированное преобразование извлеченных записей.
// Не держит ссылок на хранилище и не имеет состояния между вызовами.
type Standardizer struct{}

// NewStandardizer создает новый стандартизатор
func NewStandardizer() *Standardizer {
	return &Standardizer{}
}

// Standardize приводит извлеченную запись к канонической форме.
// defaultCurrency - валюта поставщика, используется когда извлечение
// не дало кода валюты. Ошибки: ErrUnparseablePrice, ErrInvalidCurrency.
func (s *Standardizer) Standardize(rec *extraction.ExtractedRecord, supplierID int, defaultCurrency string) (*StandardizedRecord, error) {
	name := NormalizeName(rec.ProductName)
	if name == "" {
		return nil, ErrEmptyName
	}

	priceCents, err := ParsePrice(rec.RawPrice)
	if err != nil {
		return nil, err
	}

	code, err := resolveCurrency(rec.Currency, defaultCurrency)
	if err != nil {
		return nil, err
	}

	unit, resolved := NormalizeUnit(rec.Unit)

	return &StandardizedRecord{
		Position:     rec.Position,
		Name:         name,
		PriceCents:   priceCents,
		Currency:     code,
		Unit:         unit,
		UnitResolved: resolved,
		SupplierID:   supplierID,
		SKU:          strings.TrimSpace(rec.SKU),
		FreeSample:   rec.FreeSample,
		Confidence:   rec.Confidence,
	}, nil
}

// NormalizeName нормализует название товара: обрезка, схлопывание
// пробелов, нижний регистр
func NormalizeName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.Join(strings.Fields(name), " ")
	return strings.ToLower(name)
}

// resolveCurrency выбирает и валидирует код валюты
func resolveCurrency(extracted, supplierDefault string) (string, error) {
	for _, candidate := range []string{extracted, supplierDefault} {
		candidate = strings.ToUpper(strings.TrimSpace(candidate))
		if candidate == "" {
			continue
		}
		unit, err := currency.ParseISO(candidate)
		if err != nil {
			continue
		}
		return unit.String(), nil
	}
	return "", fmt.Errorf("%w: extracted %q, supplier default %q", ErrInvalidCurrency, extracted, supplierDefault)
}
