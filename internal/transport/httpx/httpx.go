// Package httpx implements the response envelopes shared by all three
// services: payloads are wrapped in {"data": ...} and errors in
// {"detail": {"errors": [{"code": ...}]}}.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ipvault/pkg/apierrors"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type errorItem struct {
	Code string `json:"code"`
}

type errorDetail struct {
	Errors []errorItem `json:"errors"`
}

type errorEnvelope struct {
	Detail errorDetail `json:"detail"`
}

// WriteData writes a {"data": payload} envelope with the given status.
func WriteData(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, map[string]any{"data": payload})
}

// WriteError translates an error into the error envelope. Errors without a
// code become 500 internal_error.
func WriteError(w http.ResponseWriter, err error) {
	var coded *apierrors.Error
	code := apierrors.CodeInternal
	if errors.As(err, &coded) {
		code = coded.Code
	}
	WriteErrorCode(w, code)
}

// WriteErrorCode writes the error envelope for a specific code.
func WriteErrorCode(w http.ResponseWriter, code apierrors.Code) {
	writeJSON(w, apierrors.HTTPStatus(code), errorEnvelope{
		Detail: errorDetail{Errors: []errorItem{{Code: string(code)}}},
	})
}

// WriteRaw forwards an upstream response body and status verbatim. Used by
// the gateway so backend statuses and error envelopes pass through unchanged.
func WriteRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Decode reads a JSON request body into target, capping the body size.
func Decode(r *http.Request, target any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(target); err != nil {
		return apierrors.Wrap(err, apierrors.CodeInvalidRequest, "invalid request body")
	}
	return nil
}

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// Pagination reads items_per_page (1..50, default 10) and page_number
// (default 0) from the query string and converts them to limit/offset.
func Pagination(r *http.Request) (limit, offset int, err error) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("items_per_page"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageSize {
			return 0, 0, apierrors.New(apierrors.CodeInvalidRequest, "items_per_page must be between 1 and 50")
		}
	}

	page := 0
	if raw := r.URL.Query().Get("page_number"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 0 {
			return 0, 0, apierrors.New(apierrors.CodeInvalidRequest, "page_number must be a non-negative integer")
		}
	}
	return limit, page * limit, nil
}

// BearerToken extracts the token from an Authorization: Bearer header.
func BearerToken(r *http.Request) (string, error) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, prefix) || len(header) == len(prefix) {
		return "", apierrors.New(apierrors.CodeInvalidAccessToken, "missing bearer token")
	}
	return header[len(prefix):], nil
}
