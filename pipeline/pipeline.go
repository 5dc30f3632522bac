package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"pricelist/classification"
	"pricelist/database"
	"pricelist/dedup"
	"pricelist/extraction"
	"pricelist/importer"
	"pricelist/normalization"
)

// Store граница хранилища прайса. Конвейер читает существующие записи
// только для межбатчевой проверки дубликатов и пишет только через
// атомарный коммит батча - другие компоненты ссылок на хранилище
// не держат.
type Store interface {
	GetSupplier(id int) (*database.Supplier, error)
	GetPricingRecords(supplierID int) ([]*database.PricingRecord, error)
	CommitBatch(batchUUID string, inserts, updates []*database.PricingRecord) error
	SaveBatchReport(batchUUID string, supplierID int, filename, status string, report interface{}) error
}

// Config настройки конвейера
type Config struct {
	ConfidenceFloor     float64         // минимальная уверенность извлечения
	SimilarityThreshold float64         // порог нечеткой схожести дубликатов
	Workers             int             // одновременные запросы стадии извлечения
	ChunkSize           int             // строк на один вызов адаптера
	DefaultPolicy       DuplicatePolicy // политика дубликатов, если запрос ее не задал
}

// DefaultConfig возвращает настройки конвейера по умолчанию
func DefaultConfig() Config {
	return Config{
		ConfidenceFloor:     0.3,
		SimilarityThreshold: dedup.DefaultSimilarityThreshold,
		Workers:             extraction.DefaultWorkers,
		ChunkSize:           extraction.DefaultChunkSize,
		DefaultPolicy:       PolicySkipExisting,
	}
}

// ImportRequest один запрос импорта: файл и его принадлежность
type ImportRequest struct {
	File       io.Reader
	Filename   string
	SupplierID int
	Policy     DuplicatePolicy
}

// Pipeline конвейер импорта прайс-листов. Один батч обрабатывается
// линейной последовательностью стадий; параллельность есть только
// внутри стадии извлечения. Строковые ошибки становятся терминальными
// статусами и никогда не прерывают батч; ошибки уровня файла и коммита
// возвращаются вызывающей стороне.
type Pipeline struct {
	loader       *importer.FileLoader
	extractor    extraction.Extractor
	standardizer *normalization.Standardizer
	classifier   *classification.Classifier
	store        Store
	config       Config
	locks        *supplierLocks
}

// NewPipeline создает конвейер импорта
func NewPipeline(extractor extraction.Extractor, store Store, config Config) *Pipeline {
	if config.ConfidenceFloor <= 0 {
		config.ConfidenceFloor = 0.3
	}
	return &Pipeline{
		loader:       importer.NewFileLoader(),
		extractor:    extractor,
		standardizer: normalization.NewStandardizer(),
		classifier:   classification.NewClassifier(),
		store:        store,
		config:       config,
		locks:        newSupplierLocks(),
	}
}

// Run обрабатывает один батч от загрузки файла до коммита.
// Отмена контекста между стадиями прерывает батч без частичного коммита;
// результаты уже отправленных запросов извлечения отбрасываются.
func (p *Pipeline) Run(ctx context.Context, req ImportRequest) (*Report, error) {
	batchUUID := uuid.New().String()
	log.Printf("[Pipeline] Batch %s started: file %s, supplier %d", batchUUID, req.Filename, req.SupplierID)

	if req.Policy == "" {
		req.Policy = p.config.DefaultPolicy
	}
	if req.Policy == "" {
		req.Policy = PolicySkipExisting
	}

	// Стадия 1: загрузка файла. Ошибки файла фатальны и отдаются вызывающему.
	rows, err := p.loader.Load(req.File, req.Filename)
	if err != nil {
		return nil, err
	}

	report := &Report{
		BatchUUID:  batchUUID,
		SupplierID: req.SupplierID,
		Filename:   req.Filename,
		Rows:       make([]RowOutcome, len(rows)),
	}
	for i, row := range rows {
		report.Rows[i] = RowOutcome{Position: row.Position}
	}

	// Поставщик нужен до стандартизации: он дает валюту по умолчанию
	supplier, err := p.store.GetSupplier(req.SupplierID)
	if errors.Is(err, database.ErrSupplierNotFound) {
		for i := range report.Rows {
			report.Rows[i].Status = StatusRejected
			report.Rows[i].Reason = ReasonUnknownSupplier
		}
		report.tally()
		p.saveReport(report, "completed")
		return report, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve supplier: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Стадия 2: извлечение. Пул сохраняет исходный порядок строк.
	pool := extraction.NewPool(p.extractor, p.config.Workers, p.config.ChunkSize)
	rowResults := pool.Run(ctx, rows, extraction.DefaultFieldSchema())

	if err := ctx.Err(); err != nil {
		// Результаты уже отправленных запросов отбрасываются
		return nil, err
	}

	// Стадии 3-4: стандартизация и классификация, построчно
	var classified []*classification.ClassifiedRecord
	for i, res := range rowResults {
		outcome := &report.Rows[i]

		if res.Err != nil || res.Record == nil {
			outcome.Status = StatusRejected
			outcome.Reason = ReasonExtractionFailed
			continue
		}
		if res.Record.Confidence < p.config.ConfidenceFloor {
			outcome.Status = StatusRejected
			outcome.Reason = ReasonLowConfidence
			continue
		}

		standardized, err := p.standardizer.Standardize(res.Record, supplier.ID, supplier.DefaultCurrency)
		if err != nil {
			outcome.Status = StatusRejected
			outcome.Reason = standardizeReason(err)
			continue
		}
		if !standardized.UnitResolved {
			outcome.Warning = "unit_unresolvable"
		}

		rec := p.classifier.Classify(standardized, res.Record.CategoryHint)
		classified = append(classified, rec)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Стадии 5-6 выполняются под блокировкой поставщика: одновременные
	// батчи одного поставщика не могут задвоить товар
	unlock := p.locks.Lock(supplier.ID)
	defer unlock()

	existingRecords, err := p.store.GetPricingRecords(supplier.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing pricing: %w", err)
	}
	existing := make([]dedup.ExistingRecord, 0, len(existingRecords))
	existingByID := make(map[int64]*database.PricingRecord, len(existingRecords))
	for _, rec := range existingRecords {
		existing = append(existing, dedup.ExistingRecord{ID: rec.ID, Name: rec.Name, Unit: rec.Unit})
		existingByID[rec.ID] = rec
	}

	analyzer := dedup.NewAnalyzer(p.config.SimilarityThreshold)
	dedupResult := analyzer.Analyze(classified, existing)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Стадия 6: валидация и подготовка коммита
	outcomeByPosition := make(map[int]*RowOutcome, len(report.Rows))
	for i := range report.Rows {
		outcomeByPosition[report.Rows[i].Position] = &report.Rows[i]
	}

	var inserts, updates []*database.PricingRecord
	var committedPositions []int

	for _, rec := range classified {
		outcome := outcomeByPosition[rec.Position]
		fillRecordFields(outcome, rec)

		disp := dedupResult.Dispositions[rec.Position]

		if !disp.IsPrimary {
			outcome.Status = StatusDuplicate
			outcome.Reason = DuplicateInBatch
			outcome.PrimaryPosition = disp.PrimaryPosition
			continue
		}

		if reason, ok := validate(rec); !ok {
			outcome.Status = StatusRejected
			outcome.Reason = reason
			continue
		}

		if disp.ExistingID > 0 {
			if req.Policy == PolicySkipExisting {
				outcome.Status = StatusDuplicate
				outcome.Reason = DuplicateExisting
				continue
			}
			target := existingByID[disp.ExistingID]
			updates = append(updates, &database.PricingRecord{
				ID:         target.ID,
				SupplierID: supplier.ID,
				Name:       rec.Name,
				PriceCents: rec.PriceCents,
				Currency:   rec.Currency,
				Unit:       rec.Unit,
				Category:   string(rec.Category),
				SKU:        rec.SKU,
			})
			outcome.Status = StatusUpdated
			outcome.Reason = DuplicateExisting
			committedPositions = append(committedPositions, rec.Position)
			continue
		}

		inserts = append(inserts, &database.PricingRecord{
			SupplierID: supplier.ID,
			Name:       rec.Name,
			PriceCents: rec.PriceCents,
			Currency:   rec.Currency,
			Unit:       rec.Unit,
			Category:   string(rec.Category),
			SKU:        rec.SKU,
		})
		outcome.Status = StatusAccepted
		committedPositions = append(committedPositions, rec.Position)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Атомарный коммит: вставки и обновления в одной транзакции
	status := "completed"
	if len(inserts) > 0 || len(updates) > 0 {
		if err := p.store.CommitBatch(batchUUID, inserts, updates); err != nil {
			log.Printf("[Pipeline] Batch %s commit failed: %v", batchUUID, err)
			for _, position := range committedPositions {
				outcome := outcomeByPosition[position]
				outcome.Status = StatusRejected
				outcome.Reason = ReasonCommitFailed
			}
			status = "commit_failed"
		}
	}

	report.tally()
	p.saveReport(report, status)

	log.Printf("[Pipeline] Batch %s finished: accepted=%d, duplicates=%d/%d, rejected=%d",
		batchUUID, report.Counts.Accepted, report.Counts.DuplicateSkipped,
		report.Counts.DuplicateUpdated, report.Counts.Rejected)

	return report, nil
}

// validate применяет бизнес-правила к кандидату на коммит
func validate(rec *classification.ClassifiedRecord) (reason string, ok bool) {
	// Нулевая цена допустима только для явно помеченного бесплатного
	// образца. Категорию проверять не нужно: классификатор тотален,
	// любая строка получает валидную категорию или unclassified.
	if rec.PriceCents == 0 && !rec.FreeSample {
		return ReasonInvalidPrice, false
	}
	return "", true
}

// standardizeReason сопоставляет ошибку стандартизатора причине отклонения
func standardizeReason(err error) string {
	switch {
	case errors.Is(err, normalization.ErrUnparseablePrice):
		return ReasonUnparseablePrice
	case errors.Is(err, normalization.ErrInvalidCurrency):
		return ReasonInvalidCurrency
	case errors.Is(err, normalization.ErrEmptyName):
		return ReasonExtractionFailed
	default:
		return ReasonExtractionFailed
	}
}

// fillRecordFields заполняет поля отчета из классифицированной записи
func fillRecordFields(outcome *RowOutcome, rec *classification.ClassifiedRecord) {
	outcome.Name = rec.Name
	outcome.Price = normalization.FormatPrice(rec.PriceCents)
	outcome.Currency = rec.Currency
	outcome.Unit = rec.Unit
	outcome.Category = string(rec.Category)
	outcome.Source = string(rec.Source)
	outcome.SKU = rec.SKU
}

// saveReport сохраняет отчет; ошибка сохранения не отменяет результат батча
func (p *Pipeline) saveReport(report *Report, status string) {
	if err := p.store.SaveBatchReport(report.BatchUUID, report.SupplierID, report.Filename, status, report); err != nil {
		log.Printf("[Pipeline] Failed to save report for batch %s: %v", report.BatchUUID, err)
	}
}
