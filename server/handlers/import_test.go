package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"pricelist/database"
	"pricelist/importer"
	"pricelist/pipeline"
)

// stubRunner возвращает заранее заданный отчет или ошибку
type stubRunner struct {
	report  *pipeline.Report
	err     error
	lastReq pipeline.ImportRequest
}

func (r *stubRunner) Run(ctx context.Context, req pipeline.ImportRequest) (*pipeline.Report, error) {
	r.lastReq = req
	if r.err != nil {
		return nil, r.err
	}
	return r.report, nil
}

// stubReports хранилище отчетов в памяти
type stubReports struct {
	reports map[string]json.RawMessage
}

func (s *stubReports) GetBatchReport(batchUUID string) (json.RawMessage, error) {
	raw, ok := s.reports[batchUUID]
	if !ok {
		return nil, database.ErrBatchNotFound
	}
	return raw, nil
}

func setupImportRouter(runner BatchRunner, reports BatchReportStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewImportHandler(runner, reports)
	router.POST("/api/import", h.HandleImport)
	router.GET("/api/import/batches/:uuid", h.HandleBatchReport)
	router.GET("/api/import/template", h.HandleImportTemplate)
	return router
}

// multipartImport собирает multipart тело с файлом и полями формы
func multipartImport(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile() error = %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("part.Write() error = %v", err)
		}
	}
	for key, value := range fields {
		writer.WriteField(key, value)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestHandleImport_Success(t *testing.T) {
	runner := &stubRunner{report: &pipeline.Report{
		BatchUUID:  "batch-ok",
		SupplierID: 7,
		Filename:   "price.csv",
		Counts:     pipeline.Counts{Total: 1, Accepted: 1},
	}}
	router := setupImportRouter(runner, &stubReports{})

	body, contentType := multipartImport(t, "price.csv", "name,price\nболт,10.00\n", map[string]string{
		"supplier_id": "7",
	})
	req := httptest.NewRequest("POST", "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var report pipeline.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if report.BatchUUID != "batch-ok" || report.Counts.Accepted != 1 {
		t.Errorf("response = %+v, want batch-ok with 1 accepted", report)
	}

	if runner.lastReq.SupplierID != 7 {
		t.Errorf("runner got SupplierID = %d, want 7", runner.lastReq.SupplierID)
	}
	if runner.lastReq.Filename != "price.csv" {
		t.Errorf("runner got Filename = %s, want price.csv", runner.lastReq.Filename)
	}
}

func TestHandleImport_Validation(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		fields   map[string]string
		wantCode int
	}{
		{"Missing file", "", map[string]string{"supplier_id": "1"}, http.StatusBadRequest},
		{"Missing supplier_id", "p.csv", map[string]string{}, http.StatusBadRequest},
		{"Non-numeric supplier_id", "p.csv", map[string]string{"supplier_id": "abc"}, http.StatusBadRequest},
		{"Unknown policy", "p.csv", map[string]string{"supplier_id": "1", "duplicate_policy": "merge"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupImportRouter(&stubRunner{report: &pipeline.Report{}}, &stubReports{})

			body, contentType := multipartImport(t, tt.filename, "data", tt.fields)
			req := httptest.NewRequest("POST", "/api/import", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestHandleImport_PipelineErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"Unreadable file", importer.ErrUnreadableFile, http.StatusUnprocessableEntity},
		{"Empty file", importer.ErrEmptyFile, http.StatusBadRequest},
		{"Cancelled", context.Canceled, http.StatusRequestTimeout},
		{"Internal", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupImportRouter(&stubRunner{err: tt.err}, &stubReports{})

			body, contentType := multipartImport(t, "p.csv", "data", map[string]string{"supplier_id": "1"})
			req := httptest.NewRequest("POST", "/api/import", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.wantCode, w.Body.String())
			}

			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal error response: %v", err)
			}
			if !resp.Error || resp.Message == "" {
				t.Errorf("error response = %+v, want error=true with message", resp)
			}
		})
	}
}

func TestHandleBatchReport(t *testing.T) {
	reports := &stubReports{reports: map[string]json.RawMessage{
		"batch-1": json.RawMessage(`{"batch_uuid":"batch-1","counts":{"total":2}}`),
	}}
	router := setupImportRouter(&stubRunner{}, reports)

	req := httptest.NewRequest("GET", "/api/import/batches/batch-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"batch_uuid":"batch-1"`) {
		t.Errorf("body = %s, want stored report JSON", w.Body.String())
	}
}

func TestHandleBatchReport_NotFound(t *testing.T) {
	router := setupImportRouter(&stubRunner{}, &stubReports{})

	req := httptest.NewRequest("GET", "/api/import/batches/no-such", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleImportTemplate(t *testing.T) {
	router := setupImportRouter(&stubRunner{}, &stubReports{})

	req := httptest.NewRequest("GET", "/api/import/template", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "attachment") {
		t.Errorf("Content-Disposition = %s, want attachment", w.Header().Get("Content-Disposition"))
	}

	// Ответ должен быть валидным XLSX с заголовками колонок
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("template is not a valid XLSX: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	header, err := f.GetCellValue(sheet, "A1")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if header != "Наименование" {
		t.Errorf("A1 = %q, want Наименование", header)
	}
}
