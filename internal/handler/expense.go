package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dkowalski/truck-logbook/internal/domain"
	"github.com/dkowalski/truck-logbook/internal/service"
)

// maxReceiptSize caps a single receipt upload. Phone photos of crumpled
// thermal paper run a few MB; anything past this is not a receipt.
const maxReceiptSize = 10 << 20

type createExpenseRequest struct {
	TripID     *uuid.UUID `json:"trip_id,omitempty"`
	VendorName string     `json:"vendor_name,omitempty"`
	TypeName   string     `json:"type_name,omitempty"`
	Date       time.Time  `json:"date"`
	Net        float64    `json:"net"`
	Tax        *float64   `json:"tax,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

type editAmountRequest struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
}

type expenseListResponse struct {
	Expenses []domain.Expense `json:"expenses"`
}

type receiptURLResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}

	var in createExpenseRequest
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	created, err := s.expenses.Create(r.Context(), tenant, service.CreateExpenseInput{
		TripID:     in.TripID,
		VendorName: in.VendorName,
		TypeName:   in.TypeName,
		Date:       in.Date,
		Net:        in.Net,
		Tax:        in.Tax,
		Notes:      in.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	id, err := pathUUID(r, "expenseID")
	if err != nil {
		writeBadRequest(w, "malformed expense id")
		return
	}

	e, err := s.expenses.GetByID(r.Context(), tenant, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleListTripExpenses(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "malformed trip id")
		return
	}

	expenses, err := s.expenses.ListByTrip(r.Context(), tenant, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseListResponse{Expenses: expenses})
}

func (s *Server) handleEditExpenseAmount(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	id, err := pathUUID(r, "expenseID")
	if err != nil {
		writeBadRequest(w, "malformed expense id")
		return
	}

	var in editAmountRequest
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	updated, err := s.expenses.EditAmount(r.Context(), tenant, id, domain.AmountField(in.Field), in.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	id, err := pathUUID(r, "expenseID")
	if err != nil {
		writeBadRequest(w, "malformed expense id")
		return
	}

	if err := s.expenses.Delete(r.Context(), tenant, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAttachReceipt accepts a multipart upload with a single "receipt"
// file part.
func (s *Server) handleAttachReceipt(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	id, err := pathUUID(r, "expenseID")
	if err != nil {
		writeBadRequest(w, "malformed expense id")
		return
	}

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		writeBadRequest(w, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("receipt")
	if err != nil {
		writeBadRequest(w, "missing receipt file part")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.expenses.AttachReceipt(r.Context(), tenant, id, header.Filename, contentType, file); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReceiptURL(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	id, err := pathUUID(r, "expenseID")
	if err != nil {
		writeBadRequest(w, "malformed expense id")
		return
	}

	url, err := s.expenses.ReceiptURL(r.Context(), tenant, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receiptURLResponse{URL: url})
}

func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}

	vendors, err := s.expenses.ListVendors(r.Context(), tenant)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Vendor{"vendors": vendors})
}

func (s *Server) handleListExpenseTypes(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}

	types, err := s.expenses.ListTypes(r.Context(), tenant)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.ExpenseType{"expense_types": types})
}
