package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// Pagination holds the clamped page/limit pair shared by every list endpoint.
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads page/limit query params, clamping both to >= 1.
// Limit defaults to 10 when absent or unparseable.
func ParsePagination(r *http.Request) Pagination {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 {
			page = parsed
		}
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 {
			limit = parsed
		}
	}

	return Pagination{Page: page, Limit: limit}
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(totalRecords/limit).
func (p Pagination) TotalPages(totalRecords int) int {
	if totalRecords == 0 {
		return 0
	}
	return (totalRecords + p.Limit - 1) / p.Limit
}

// PagedResponse is the envelope every report/listing endpoint returns.
type PagedResponse struct {
	Page         int         `json:"page"`
	Limit        int         `json:"limit"`
	TotalRecords int         `json:"totalRecords"`
	TotalPages   int         `json:"totalPages"`
	Data         interface{} `json:"data"`
}

// NewPagedResponse builds the envelope. Pass a non-nil slice so empty pages
// serialize as [] rather than null.
func NewPagedResponse(p Pagination, totalRecords int, data interface{}) PagedResponse {
	return PagedResponse{
		Page:         p.Page,
		Limit:        p.Limit,
		TotalRecords: totalRecords,
		TotalPages:   p.TotalPages(totalRecords),
		Data:         data,
	}
}
