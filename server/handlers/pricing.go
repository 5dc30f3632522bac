package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/currency"

	"pricelist/database"
	"pricelist/normalization"
	apperrors "pricelist/server/errors"
)

// PricingStore доступ к справочнику поставщиков и записям прайса
type PricingStore interface {
	GetSupplier(id int) (*database.Supplier, error)
	GetAllSuppliers() ([]*database.Supplier, error)
	CreateSupplier(name, defaultCurrency string) (*database.Supplier, error)
	GetPricingRecords(supplierID int) ([]*database.PricingRecord, error)
}

// PricingHandler обработчики просмотра прайса и справочника поставщиков
type PricingHandler struct {
	store PricingStore
}

// NewPricingHandler создает обработчик прайса
func NewPricingHandler(store PricingStore) *PricingHandler {
	return &PricingHandler{store: store}
}

// PricingRecordResponse запись прайса в ответе API
type PricingRecordResponse struct {
	ID         int64  `json:"id"`
	SupplierID int    `json:"supplier_id"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Currency   string `json:"currency"`
	Unit       string `json:"unit"`
	Category   string `json:"category"`
	SKU        string `json:"sku,omitempty"`
	BatchUUID  string `json:"batch_uuid"`
	UpdatedAt  string `json:"updated_at"`
}

// HandlePricing обработчик получения записей прайса поставщика
// @Summary Получить прайс поставщика
// @Description Возвращает закоммиченные записи прайса указанного поставщика
// @Tags pricing
// @Produce json
// @Param supplier_id query int true "ID поставщика"
// @Success 200 {array} PricingRecordResponse "Записи прайса"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Failure 404 {object} ErrorResponse "Поставщик не найден"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/pricing [get]
func (h *PricingHandler) HandlePricing(c *gin.Context) {
	supplierIDStr := c.Query("supplier_id")
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

	if _, err := h.store.GetSupplier(supplierID); err != nil {
		if errors.Is(err, database.ErrSupplierNotFound) {
			appErr := apperrors.NewNotFoundError("поставщик не найден", err)
			SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
			return
		}
		appErr := apperrors.NewInternalError("ошибка чтения поставщика", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	records, err := h.store.GetPricingRecords(supplierID)
	if err != nil {
		appErr := apperrors.NewInternalError("ошибка чтения прайса", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	response := make([]PricingRecordResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, PricingRecordResponse{
			ID:         rec.ID,
			SupplierID: rec.SupplierID,
			Name:       rec.Name,
			Price:      normalization.FormatPrice(rec.PriceCents),
			Currency:   rec.Currency,
			Unit:       rec.Unit,
			Category:   rec.Category,
			SKU:        rec.SKU,
			BatchUUID:  rec.BatchUUID,
			UpdatedAt:  rec.UpdatedAt.Format(time.RFC3339),
		})
	}

	SendJSONResponse(c, http.StatusOK, response)
}

// CreateSupplierRequest тело запроса создания поставщика
type CreateSupplierRequest struct {
	Name            string `json:"name" binding:"required"`
	DefaultCurrency string `json:"default_currency"`
}

// HandleSuppliers обработчик получения списка поставщиков
// @Summary Получить список поставщиков
// @Tags suppliers
// @Produce json
// @Success 200 {array} database.Supplier "Поставщики"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/suppliers [get]
func (h *PricingHandler) HandleSuppliers(c *gin.Context) {
	suppliers, err := h.store.GetAllSuppliers()
	if err != nil {
		appErr := apperrors.NewInternalError("ошибка чтения поставщиков", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	SendJSONResponse(c, http.StatusOK, suppliers)
}

// HandleCreateSupplier обработчик создания поставщика
// @Summary Создать поставщика
// @Description Создает поставщика с валютой по умолчанию для его прайс-листов
// @Tags suppliers
// @Accept json
// @Produce json
// @Param supplier body CreateSupplierRequest true "Поставщик"
// @Success 201 {object} database.Supplier "Созданный поставщик"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/suppliers [post]
func (h *PricingHandler) HandleCreateSupplier(c *gin.Context) {
	var req CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("неверное тело запроса", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	if req.DefaultCurrency == "" {
		req.DefaultCurrency = "RUB"
	}
	req.DefaultCurrency = strings.ToUpper(strings.TrimSpace(req.DefaultCurrency))
	if _, err := currency.ParseISO(req.DefaultCurrency); err != nil {
		appErr := apperrors.NewValidationError("неизвестный код валюты: "+req.DefaultCurrency, err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	supplier, err := h.store.CreateSupplier(strings.TrimSpace(req.Name), req.DefaultCurrency)
	if err != nil {
		appErr := apperrors.NewInternalError("ошибка создания поставщика", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	SendJSONResponse(c, http.StatusCreated, supplier)
}

// HandleHealth обработчик проверки работоспособности
// @Summary Проверка работоспособности
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string "Статус сервера"
// @Router /health [get]
func HandleHealth(c *gin.Context) {
	SendJSONResponse(c, http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
