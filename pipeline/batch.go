package pipeline

// RowStatus терминальный статус строки батча.
// Каждая входная строка попадает в отчет ровно один раз ровно
// с одним терминальным статусом.
type RowStatus string

const (
	// StatusAccepted строка принята и закоммичена как новая запись
	StatusAccepted RowStatus = "accepted"
	// StatusDuplicate строка признана дубликатом и не коммитится
	StatusDuplicate RowStatus = "duplicate"
	// StatusUpdated строка обновила существующую запись (политика update_existing)
	StatusUpdated RowStatus = "updated"
	// StatusRejected строка отклонена с указанием причины
	StatusRejected RowStatus = "rejected"
)

// Причины отклонения и виды дубликатов
const (
	ReasonExtractionFailed = "extraction_failed"
	ReasonLowConfidence    = "low_confidence"
	ReasonUnparseablePrice = "unparseable_price"
	ReasonInvalidCurrency  = "invalid_currency"
	ReasonInvalidPrice     = "invalid_price"
	ReasonUnknownSupplier  = "unknown_supplier"
	ReasonCommitFailed     = "commit_failed"

	DuplicateInBatch  = "in_batch"
	DuplicateExisting = "existing_record"
)

// DuplicatePolicy политика обработки межбатчевых дубликатов
type DuplicatePolicy string

const (
	// PolicySkipExisting пропускать строки, совпавшие с закоммиченными записями
	PolicySkipExisting DuplicatePolicy = "skip_existing"
	// PolicyUpdateExisting обновлять совпавшие записи вместо пропуска
	PolicyUpdateExisting DuplicatePolicy = "update_existing"
)

// RowOutcome итог обработки одной строки
type RowOutcome struct {
	Position        int       `json:"position"`
	Status          RowStatus `json:"status"`
	Reason          string    `json:"reason,omitempty"`           // причина отклонения или вид дубликата
	PrimaryPosition int       `json:"primary_position,omitempty"` // для дублей in_batch
	Name            string    `json:"name,omitempty"`
	Price           string    `json:"price,omitempty"`
	Currency        string    `json:"currency,omitempty"`
	Unit            string    `json:"unit,omitempty"`
	Category        string    `json:"category,omitempty"`
	Source          string    `json:"classification_source,omitempty"`
	SKU             string    `json:"sku,omitempty"`
	Warning         string    `json:"warning,omitempty"` // нефатальные замечания (нераспознанная единица)
}

// Counts агрегатные счетчики батча
type Counts struct {
	Total            int            `json:"total"`
	Accepted         int            `json:"accepted"`
	DuplicateSkipped int            `json:"duplicate_skipped"`
	DuplicateUpdated int            `json:"duplicate_updated"`
	Rejected         int            `json:"rejected"`
	RejectedByReason map[string]int `json:"rejected_by_reason"`
}

// Report итоговый отчет батча. После возврата из конвейера неизменяем.
type Report struct {
	BatchUUID  string       `json:"batch_uuid"`
	SupplierID int          `json:"supplier_id"`
	Filename   string       `json:"filename"`
	Rows       []RowOutcome `json:"rows"`
	Counts     Counts       `json:"counts"`
}

// tally пересчитывает агрегатные счетчики по строкам отчета
func (r *Report) tally() {
	counts := Counts{
		Total:            len(r.Rows),
		RejectedByReason: make(map[string]int),
	}
	for _, row := range r.Rows {
		switch row.Status {
		case StatusAccepted:
			counts.Accepted++
		case StatusUpdated:
			counts.DuplicateUpdated++
		case StatusDuplicate:
			counts.DuplicateSkipped++
		case StatusRejected:
			counts.Rejected++
			counts.RejectedByReason[row.Reason]++
		}
	}
	r.Counts = counts
}
