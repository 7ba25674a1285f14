// Package api serves the REST API under /api/v1 and assembles the HTTP
// router shared with the Connect services.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ksdfg/bill-splitter/internal/models"
	"github.com/ksdfg/bill-splitter/internal/ocr"
	"github.com/ksdfg/bill-splitter/internal/service"
	"github.com/ksdfg/bill-splitter/internal/validation"
)

// Handler handles HTTP requests for outings and bills
type Handler struct {
	outings        *service.OutingService
	bills          *service.BillService
	maxUploadBytes int64
}

// NewHandler creates a new handler
func NewHandler(outings *service.OutingService, bills *service.BillService, maxUploadBytes int64) *Handler {
	return &Handler{outings: outings, bills: bills, maxUploadBytes: maxUploadBytes}
}

// Routes returns the router for the /api/v1 endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)
	r.Get("/health/", h.Health)

	r.Route("/bills", func(r chi.Router) {
		r.Post("/split", h.Split)
		r.Post("/balance", h.Balance)
		r.Post("/ocr", h.ExtractBill)
	})
	r.Post("/outings/split", h.Split)

	return r
}

// Health handles GET /health
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// Split handles POST /outings/split and POST /bills/split
// @Summary      Settle an outing
// @Description  Computes the fewest payments that settle every balance
// @Tags         outings
// @Accept       json
// @Produce      json
// @Param        request body models.Outing true "Outing"
// @Success      200 {object} models.OutingSplit
// @Failure      422 {object} ValidationErrorResponse
// @Router       /outings/split [post]
func (h *Handler) Split(w http.ResponseWriter, r *http.Request) {
	outing, ok := decodeOuting(w, r)
	if !ok {
		return
	}

	split, err := h.outings.Settle(outing)
	if err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, split)
}

// Balance handles POST /bills/balance
// @Summary      Compute outing balances
// @Description  Returns who is owed and who owes, largest amounts first
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        request body models.Outing true "Outing"
// @Success      200 {object} models.OutingPaymentBalance
// @Failure      422 {object} ValidationErrorResponse
// @Router       /bills/balance [post]
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	outing, ok := decodeOuting(w, r)
	if !ok {
		return
	}

	balance, err := h.outings.ComputeBalance(outing)
	if err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, balance)
}

// ExtractBill handles POST /bills/ocr
// @Summary      Extract a bill from a receipt image
// @Description  Reads items, tax rate, service charge and total from a receipt image
// @Tags         bills
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Receipt image"
// @Success      200 {object} models.OCRBill
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ValidationErrorResponse
// @Failure      501 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /bills/ocr [post]
func (h *Handler) ExtractBill(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", tooLarge.Limit))
			return
		}
		ValidationError(w, validation.Errors{{
			Loc:  []any{"body", "file"},
			Msg:  "Field required",
			Type: "missing",
		}})
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if err := ocr.CheckMediaType(mimeType); err != nil {
		Error(w, http.StatusBadRequest, ocr.ErrUnsupportedMediaType.Error())
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		Error(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	bill, err := h.bills.Extract(r.Context(), image, mimeType)
	if err != nil {
		slog.Error("Bill extraction failed", "filename", header.Filename, "error", err)
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, bill)
}

// decodeOuting reads the request body, writing a 422 on malformed JSON.
func decodeOuting(w http.ResponseWriter, r *http.Request) (*models.Outing, bool) {
	var outing models.Outing
	if err := json.NewDecoder(r.Body).Decode(&outing); err != nil {
		ValidationError(w, validation.Errors{{
			Loc:  []any{"body"},
			Msg:  "JSON decode error: " + err.Error(),
			Type: "json_invalid",
		}})
		return nil, false
	}
	return &outing, true
}

// writeError maps domain errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		ValidationError(w, verrs)
	case errors.Is(err, ocr.ErrUnsupportedMediaType):
		Error(w, http.StatusBadRequest, ocr.ErrUnsupportedMediaType.Error())
	case errors.Is(err, ocr.ErrNotConfigured):
		Error(w, http.StatusNotImplemented, ocr.ErrNotConfigured.Error())
	case errors.Is(err, ocr.ErrExtractionFailed):
		Error(w, http.StatusBadGateway, err.Error())
	default:
		slog.Error("Unhandled error", "error", err)
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}
