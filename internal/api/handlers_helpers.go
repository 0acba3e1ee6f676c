// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/logging"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/models"
	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/validation"
)

// maxBodyBytes caps request bodies; a candidate list of a few hundred
// enriched tracks fits comfortably.
const maxBodyBytes = 4 << 20

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in the success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}, queryTimeMS int64) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: queryTimeMS,
			RequestID:   logging.RequestIDFromContext(r.Context()),
		},
	})
}

// respondError sends an error response. err, when non-nil, is logged with
// the request's ids but never sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondAPIError sends a prepared APIError with status 400.
func respondAPIError(w http.ResponseWriter, r *http.Request, apiErr *models.APIError) {
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: apiErr,
	})
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// decodeAndValidate reads a JSON body into dst and validates it. On failure
// it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large", nil)
		case errors.Is(err, io.EOF):
			respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "Request body is empty", nil)
		default:
			respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid JSON body: "+sanitizeLogValue(err.Error()), nil)
		}
		return false
	}

	if apiErr := validateRequest(dst); apiErr != nil {
		respondAPIError(w, r, apiErr)
		return false
	}
	return true
}
