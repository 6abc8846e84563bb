// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	accountdom "stockroom/internal/domain/account"
	categorydom "stockroom/internal/domain/category"
	ledgerdom "stockroom/internal/domain/ledger"
	productdom "stockroom/internal/domain/product"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps domain sentinels onto HTTP statuses. Anything
// unmapped is logged server-side and surfaced as a generic failure so the
// UI never crashes on an unexpected message.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, productdom.ErrInsufficientStock):
		writeErrorMsg(w, http.StatusConflict, err.Error())

	case errors.Is(err, productdom.ErrNotFound),
		errors.Is(err, categorydom.ErrNotFound),
		errors.Is(err, ledgerdom.ErrDeductionNotFound),
		errors.Is(err, accountdom.ErrNotFound):
		writeErrorMsg(w, http.StatusNotFound, err.Error())

	case errors.Is(err, productdom.ErrInvalidName),
		errors.Is(err, productdom.ErrInvalidStock),
		errors.Is(err, productdom.ErrInvalidFractionPerUnit),
		errors.Is(err, productdom.ErrInvalidFractionRemaining),
		errors.Is(err, productdom.ErrInvalidAmount),
		errors.Is(err, productdom.ErrWholeUnitsOnly),
		errors.Is(err, productdom.ErrNameMismatch),
		errors.Is(err, categorydom.ErrInvalidName),
		errors.Is(err, categorydom.ErrDuplicateName),
		errors.Is(err, categorydom.ErrReserved),
		errors.Is(err, accountdom.ErrInvalidUID),
		errors.Is(err, accountdom.ErrInvalidEmail):
		writeErrorMsg(w, http.StatusBadRequest, err.Error())

	default:
		log.Printf("[handlers] unexpected error: %v", err)
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// ============================================================
// DTOs (field names follow the stored document fields)
// ============================================================

type productJSON struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	CategoryName      string  `json:"categoryName"`
	Stock             int64   `json:"stock"`
	IsDivisible       bool    `json:"isDivisible"`
	FractionPerUnit   float64 `json:"fractionPerUnit,omitempty"`
	FractionRemaining float64 `json:"fractionRemaining,omitempty"`
}

func toProductJSON(p productdom.Product) productJSON {
	return productJSON{
		ID:                p.ID,
		Name:              p.Name,
		CategoryName:      p.CategoryName,
		Stock:             p.Stock,
		IsDivisible:       p.IsDivisible,
		FractionPerUnit:   p.FractionPerUnit,
		FractionRemaining: p.FractionRemaining,
	}
}

func toProductListJSON(list []productdom.Product) []productJSON {
	out := make([]productJSON, 0, len(list))
	for _, p := range list {
		out = append(out, toProductJSON(p))
	}
	return out
}

type ledgerEntryJSON struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	CategoryName string    `json:"categoryName"`
	Amount       float64   `json:"amount"`
	Date         time.Time `json:"date"`
}

func toDeductionJSON(d ledgerdom.Deduction) ledgerEntryJSON {
	return ledgerEntryJSON{
		ID:           d.ID,
		ProductID:    d.ProductID,
		ProductName:  d.ProductName,
		CategoryName: d.CategoryName,
		Amount:       d.Amount,
		Date:         d.Date,
	}
}

func toReturnJSON(ret ledgerdom.Return) ledgerEntryJSON {
	return ledgerEntryJSON{
		ID:           ret.ID,
		ProductID:    ret.ProductID,
		ProductName:  ret.ProductName,
		CategoryName: ret.CategoryName,
		Amount:       ret.Amount,
		Date:         ret.Date,
	}
}

type categoryJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toCategoryJSON(c categorydom.Category) categoryJSON {
	return categoryJSON{ID: c.ID, Name: c.Name}
}
