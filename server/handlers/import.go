package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"pricelist/database"
	"pricelist/importer"
	"pricelist/pipeline"
	apperrors "pricelist/server/errors"
)

// maxImportFileSize ограничение размера загружаемого прайс-листа
const maxImportFileSize = 100 << 20 // 100 MB

// BatchRunner запускает обработку одного батча импорта
type BatchRunner interface {
	Run(ctx context.Context, req pipeline.ImportRequest) (*pipeline.Report, error)
}

// BatchReportStore читает сохраненные отчеты батчей
type BatchReportStore interface {
	GetBatchReport(batchUUID string) (json.RawMessage, error)
}

// ImportHandler обработчики импорта прайс-листов
type ImportHandler struct {
	runner  BatchRunner
	reports BatchReportStore
}

// NewImportHandler создает обработчик импорта
func NewImportHandler(runner BatchRunner, reports BatchReportStore) *ImportHandler {
	return &ImportHandler{runner: runner, reports: reports}
}

// HandleImport обработчик загрузки прайс-листа
// @Summary Импортировать прайс-лист
// @Description Принимает файл прайс-листа (XLSX/CSV/TSV), прогоняет его через конвейер извлечения, нормализации и дедупликации и возвращает построчный отчет батча
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл прайс-листа"
// @Param supplier_id formData int true "ID поставщика"
// @Param duplicate_policy formData string false "Политика дубликатов: skip_existing или update_existing"
// @Success 200 {object} pipeline.Report "Отчет батча"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Failure 422 {object} ErrorResponse "Файл не читается"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/import [post]
func (h *ImportHandler) HandleImport(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxImportFileSize); err != nil {
		appErr := apperrors.NewValidationError("не удалось разобрать multipart форму", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		appErr := apperrors.NewValidationError("файл не передан", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}
	defer file.Close()

	supplierIDStr := c.PostForm("supplier_id")
	if supplierIDStr == "" {
		SendJSONError(c, http.StatusBadRequest, "supplier_id обязателен")
		return
	}
	supplierID, err := strconv.Atoi(supplierIDStr)
	if err != nil {
		appErr := apperrors.NewValidationError("неверный формат supplier_id", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	policy := pipeline.DuplicatePolicy(c.PostForm("duplicate_policy"))
	if policy != "" && policy != pipeline.PolicySkipExisting && policy != pipeline.PolicyUpdateExisting {
		SendJSONError(c, http.StatusBadRequest, fmt.Sprintf("неизвестная политика дубликатов: %s", policy))
		return
	}

	report, err := h.runner.Run(c.Request.Context(), pipeline.ImportRequest{
		File:       file,
		Filename:   header.Filename,
		SupplierID: supplierID,
		Policy:     policy,
	})
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrUnreadableFile):
			appErr := apperrors.NewUnprocessableError("файл не удалось прочитать", err)
			SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		case errors.Is(err, importer.ErrEmptyFile):
			appErr := apperrors.NewValidationError("файл не содержит строк данных", err)
			SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			SendJSONError(c, http.StatusRequestTimeout, "импорт прерван")
		default:
			appErr := apperrors.NewInternalError("ошибка обработки батча", err)
			SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		}
		return
	}

	SendJSONResponse(c, http.StatusOK, report)
}

// HandleBatchReport обработчик получения отчета батча
// @Summary Получить отчет батча импорта
// @Description Возвращает сохраненный построчный отчет ранее обработанного батча
// @Tags import
// @Produce json
// @Param uuid path string true "UUID батча"
// @Success 200 {object} pipeline.Report "Отчет батча"
// @Failure 404 {object} ErrorResponse "Батч не найден"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/import/batches/{uuid} [get]
func (h *ImportHandler) HandleBatchReport(c *gin.Context) {
	batchUUID := c.Param("uuid")

	report, err := h.reports.GetBatchReport(batchUUID)
	if err != nil {
		if errors.Is(err, database.ErrBatchNotFound) {
			appErr := apperrors.NewNotFoundError("батч не найден", err)
			SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
			return
		}
		appErr := apperrors.NewInternalError("ошибка чтения отчета батча", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", report)
}

// HandleImportTemplate обработчик скачивания шаблона прайс-листа
// @Summary Скачать шаблон прайс-листа
// @Description Возвращает XLSX шаблон с ожидаемыми колонками и строкой-примером
// @Tags import
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "XLSX шаблон"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/import/template [get]
func (h *ImportHandler) HandleImportTemplate(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"Наименование", "Цена", "Валюта", "Ед. изм.", "Артикул", "Категория"}
	example := []interface{}{"Саморез по дереву 3.5x45", "1 250,50", "RUB", "упак", "SW-3545", "Крепеж"}

	for i, label := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, label)
	}
	for i, value := range example {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, value)
	}

	filename := fmt.Sprintf("pricelist_template_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		appErr := apperrors.NewInternalError("ошибка генерации шаблона", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
	}
}
