package extraction

import (
	"context"
	"log"
	"sync"

	"pricelist/importer"
)

const (
	// DefaultWorkers количество одновременных запросов к AI по умолчанию
	DefaultWorkers = 4
	// DefaultChunkSize размер пачки строк на один вызов адаптера
	DefaultChunkSize = 5
)

// RowResult итог извлечения одной строки.
// Record == nil при Err == nil означает явный сигнал "no extraction" от адаптера.
type RowResult struct {
	Position int
	Record   *ExtractedRecord
	Err      error
}

// Pool пул воркеров стадии извлечения для одного батча.
// Диспетчеризует пачки строк ограниченным числом одновременных запросов,
// но собирает результаты в исходном порядке файла. Успешные извлечения
// кэшируются по позиции строки: адаптер не вызывается повторно для уже
// извлеченной строки в пределах батча.
type Pool struct {
	extractor Extractor
	workers   int
	chunkSize int

	cacheMu sync.Mutex
	cache   map[int]*ExtractedRecord
}

// NewPool создает пул извлечения для одного батча
func NewPool(extractor Extractor, workers, chunkSize int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Pool{
		extractor: extractor,
		workers:   workers,
		chunkSize: chunkSize,
		cache:     make(map[int]*ExtractedRecord),
	}
}

type chunkJob struct {
	indices []int
	rows    []importer.RawRow
}

// Run извлекает все строки батча. Результат имеет ту же длину и порядок,
// что и rows, независимо от порядка завершения запросов. Ошибка извлечения
// одной пачки не прерывает остальные: ее строки получают индивидуальный Err.
func (p *Pool) Run(ctx context.Context, rows []importer.RawRow, schema FieldSchema) []RowResult {
	results := make([]RowResult, len(rows))
	for i, row := range rows {
		results[i] = RowResult{Position: row.Position}
	}

	// Сначала разрешаем строки из кэша, в работу идут только остальные
	var pending []int
	p.cacheMu.Lock()
	for i, row := range rows {
		if rec, ok := p.cache[row.Position]; ok {
			results[i].Record = rec
		} else {
			pending = append(pending, i)
		}
	}
	p.cacheMu.Unlock()

	if len(pending) == 0 {
		return results
	}

	jobs := make(chan chunkJob)
	var wg sync.WaitGroup
	var resultsMu sync.Mutex

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				p.runChunk(ctx, job, schema, results, &resultsMu)
			}
		}()
	}

	// Нарезаем ожидающие строки на пачки, сохраняя их индексы в results
	dispatched := 0
dispatch:
	for start := 0; start < len(pending); start += p.chunkSize {
		end := start + p.chunkSize
		if end > len(pending) {
			end = len(pending)
		}

		job := chunkJob{
			indices: pending[start:end],
			rows:    make([]importer.RawRow, 0, end-start),
		}
		for _, idx := range pending[start:end] {
			job.rows = append(job.rows, rows[idx])
		}

		select {
		case <-ctx.Done():
			// Новые пачки не отправляем; уже отправленные довершатся,
			// их результаты отбросит вызывающая сторона
			break dispatch
		case jobs <- job:
			dispatched = end
		}
	}
	close(jobs)
	wg.Wait()

	// Строки, не попавшие в работу из-за отмены, помечаем ошибкой контекста
	if ctx.Err() != nil {
		resultsMu.Lock()
		for _, idx := range pending[dispatched:] {
			if results[idx].Record == nil && results[idx].Err == nil {
				results[idx].Err = ctx.Err()
			}
		}
		resultsMu.Unlock()
	}

	return results
}

// runChunk выполняет извлечение одной пачки и раскладывает результат по строкам
func (p *Pool) runChunk(ctx context.Context, job chunkJob, schema FieldSchema, results []RowResult, mu *sync.Mutex) {
	records, err := p.extractor.Extract(ctx, job.rows, schema)
	if err != nil {
		log.Printf("[Extraction] Chunk starting at row %d failed: %v", job.rows[0].Position, err)
		mu.Lock()
		for _, idx := range job.indices {
			results[idx].Err = err
		}
		mu.Unlock()
		return
	}

	mu.Lock()
	defer mu.Unlock()
	for i, idx := range job.indices {
		var rec *ExtractedRecord
		if i < len(records) {
			rec = records[i]
		}
		results[idx].Record = rec
		if rec != nil {
			p.cacheMu.Lock()
			p.cache[rec.Position] = rec
			p.cacheMu.Unlock()
		}
	}
}
