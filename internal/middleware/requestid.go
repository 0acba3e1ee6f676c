// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai/internal/logging"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"
	// CorrelationIDHeader lets an upstream caller join our logs to theirs.
	CorrelationIDHeader = "X-Correlation-ID"

	maxIDLength = 128
)

// RequestID assigns a request id and a correlation id to every request.
// Ids supplied by an upstream proxy are reused when they are short enough
// to be safe to log. Both ids are echoed in the response headers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxIDLength {
			requestID = logging.GenerateRequestID()
		}
		correlationID := r.Header.Get(CorrelationIDHeader)
		if correlationID == "" || len(correlationID) > maxIDLength {
			correlationID = logging.GenerateCorrelationID()
		}

		w.Header().Set(RequestIDHeader, requestID)
		w.Header().Set(CorrelationIDHeader, correlationID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = logging.ContextWithCorrelationID(ctx, correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserContext adds the {userID} route parameter to the logging context.
// It must run inside a route that declares the parameter.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := logging.ContextWithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
