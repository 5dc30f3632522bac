package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Ошибки уровня файла. Строковые обработки не производятся: файл либо
// читается целиком, либо загрузка прерывается до запуска конвейера.
var (
	// ErrUnreadableFile файл не удалось разобрать ни одним из поддерживаемых форматов
	ErrUnreadableFile = errors.New("file format is unreadable")
	// ErrEmptyFile после определения строки заголовков не найдено ни одной строки данных
	ErrEmptyFile = errors.New("file contains no data rows")
)

// RawCell одна ячейка исходной строки: метка колонки и сырое значение
type RawCell struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// RawRow строка исходного файла в порядке колонок.
// Position - позиция строки в файле (1-based), используется как стабильный
// идентификатор строки на всех стадиях конвейера.
type RawRow struct {
	Position int       `json:"position"`
	Cells    []RawCell `json:"cells"`
}

// Get возвращает значение ячейки по метке колонки (без учета регистра)
func (r RawRow) Get(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	for _, cell := range r.Cells {
		if strings.ToLower(strings.TrimSpace(cell.Label)) == label {
			return cell.Value
		}
	}
	return ""
}

// FileLoader загрузчик табличных файлов прайс-листов.
// Поддерживает книги Excel (xlsx) и текстовые файлы с разделителями (csv/tsv).
type FileLoader struct{}

// NewFileLoader создает новый загрузчик файлов
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load читает загруженный файл в упорядоченную последовательность RawRow.
// Формат определяется по расширению имени файла, при неоднозначности -
// по содержимому (xlsx это zip-архив, сигнатура "PK").
func (fl *FileLoader) Load(r io.Reader, filename string) ([]RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	var table [][]string
	switch sniffFormat(filename, data) {
	case formatXLSX:
		table, err = readWorkbook(data)
	case formatDelimited:
		table, err = readDelimited(data)
	default:
		return nil, ErrUnreadableFile
	}
	if err != nil {
		return nil, err
	}

	rows, err := tableToRows(table)
	if err != nil {
		return nil, err
	}

	log.Printf("[Importer] Loaded %d data rows from %s", len(rows), filename)
	return rows, nil
}

type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatXLSX
	formatDelimited
)

// sniffFormat определяет формат файла по расширению и содержимому
func sniffFormat(filename string, data []byte) fileFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return formatXLSX
	case ".csv", ".tsv", ".txt":
		return formatDelimited
	}
	// xlsx это zip-архив
	if len(data) >= 2 && data[0] == 'P' && data[1] == 'K' {
		return formatXLSX
	}
	if isProbablyText(data) {
		return formatDelimited
	}
	return formatUnknown
}

// readWorkbook читает первый лист книги Excel
func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: no sheets found in workbook", ErrUnreadableFile)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return rows, nil
}

// readDelimited читает текстовый файл с разделителями.
// Разделитель выбирается по первой строке: табуляция, точка с запятой или запятая.
func readDelimited(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return rows, nil
}

// sniffDelimiter выбирает разделитель по первой непустой строке
func sniffDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}
	switch {
	case bytes.ContainsRune(line, '\t'):
		return '\t'
	case bytes.ContainsRune(line, ';'):
		return ';'
	default:
		return ','
	}
}

// tableToRows находит строку заголовков и преобразует таблицу в []RawRow.
// Заголовком считается первая строка, содержащая минимум две непустые
// нечисловые ячейки; строки до нее отбрасываются. Метки колонок передаются
// дальше только как подсказки для извлечения, не как фиксированная схема.
func tableToRows(table [][]string) ([]RawRow, error) {
	headerIdx := findHeaderRow(table)
	if headerIdx < 0 {
		return nil, ErrEmptyFile
	}

	headers := table[headerIdx]
	var rows []RawRow
	for i := headerIdx + 1; i < len(table); i++ {
		row := table[i]
		if isEmptyRow(row) {
			continue
		}

		raw := RawRow{Position: i + 1}
		for col, value := range row {
			label := ""
			if col < len(headers) {
				label = strings.TrimSpace(headers[col])
			}
			if label == "" {
				label = fmt.Sprintf("column_%d", col+1)
			}
			raw.Cells = append(raw.Cells, RawCell{Label: label, Value: strings.TrimSpace(value)})
		}
		rows = append(rows, raw)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

// findHeaderRow ищет индекс строки заголовков
func findHeaderRow(table [][]string) int {
	for i, row := range table {
		textCells := 0
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" || isNumericCell(cell) {
				continue
			}
			textCells++
		}
		if textCells >= 2 {
			return i
		}
	}
	return -1
}

// isNumericCell проверяет, что ячейка содержит только число
func isNumericCell(s string) bool {
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// isEmptyRow проверяет, что все ячейки строки пустые
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// isProbablyText эвристика текстового содержимого для файлов без расширения
func isProbablyText(data []byte) bool {
	limit := len(data)
	if limit > 512 {
		limit = 512
	}
	for _, b := range data[:limit] {
		if b == 0 {
			return false
		}
	}
	return true
}
