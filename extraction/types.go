package extraction

import (
	"context"

	"pricelist/importer"
)

// ExtractedRecord результат извлечения одной строки прайс-листа.
// Все поля - кандидаты: ни одно значение из AI не считается доверенным,
// пока не пройдет стандартизацию и валидацию. Запись неизменяема после
// создания - стандартизатор порождает новую сущность.
type ExtractedRecord struct {
	Position     int     `json:"position"`      // позиция исходной строки (1-based)
	ProductName  string  `json:"product_name"`  // кандидат названия товара
	RawPrice     string  `json:"unit_price"`    // цена как строка, еще не разобрана
	Unit         string  `json:"unit"`          // единица измерения как в файле
	CategoryHint string  `json:"category_hint"` // подсказка категории от AI
	SKU          string  `json:"supplier_sku"`  // артикул поставщика
	Currency     string  `json:"currency"`      // код валюты, если указан в файле
	FreeSample   bool    `json:"free_sample"`   // товар помечен как бесплатный образец
	Confidence   float64 `json:"confidence"`    // уверенность извлечения [0,1]
}

// SchemaField одно целевое поле схемы извлечения
type SchemaField struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FieldSchema целевая схема извлечения, передаваемая адаптеру вместе со строками
type FieldSchema struct {
	Fields []SchemaField `json:"fields"`
}

// DefaultFieldSchema возвращает схему полей прайс-листа
func DefaultFieldSchema() FieldSchema {
	return FieldSchema{Fields: []SchemaField{
		{Name: "product_name", Description: "наименование товара"},
		{Name: "unit_price", Description: "цена за единицу, как записана в файле"},
		{Name: "unit", Description: "единица измерения (шт, кг, м2 и т.п.)"},
		{Name: "category_hint", Description: "категория товара, если угадывается"},
		{Name: "supplier_sku", Description: "артикул/код поставщика"},
		{Name: "currency", Description: "трехбуквенный код валюты, если указан"},
		{Name: "free_sample", Description: "true если строка явно помечена как бесплатный образец"},
	}}
}

// Extractor контракт AI-адаптера извлечения. Внешний, недетерминированный
// и ненадежный коллаборатор: реализация может быть медленной и может
// ошибаться. Для строки без извлечения возвращается nil в соответствующей
// позиции результата, это не ошибка вызова.
type Extractor interface {
	Extract(ctx context.Context, rows []importer.RawRow, schema FieldSchema) ([]*ExtractedRecord, error)
}
