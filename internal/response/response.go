// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package response writes the JSON envelope every API endpoint uses:
// {"success": true, ...payload} on success and
// {"success": false, "error": "...", ...details} on failure.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Fields is the top-level payload merged into the envelope.
type Fields map[string]any

// JSON writes body with the given status code.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// Success writes a 200 envelope with the given fields.
func Success(w http.ResponseWriter, fields Fields) {
	Status(w, http.StatusOK, fields)
}

// Created writes a 201 envelope with the given fields.
func Created(w http.ResponseWriter, fields Fields) {
	Status(w, http.StatusCreated, fields)
}

// Status writes a success envelope with an explicit status code.
func Status(w http.ResponseWriter, status int, fields Fields) {
	JSON(w, status, Envelope(fields))
}

// Envelope returns fields wrapped as a success body. The success key
// always wins over a payload field of the same name.
func Envelope(fields Fields) Fields {
	body := make(Fields, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	return body
}

// Raw writes a pre-encoded JSON body, such as one read from the response
// cache.
func Raw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Warn("write response failed", "error", err)
	}
}

// Error writes a failure envelope. extra may be nil.
func Error(w http.ResponseWriter, status int, msg string, extra Fields) {
	body := make(Fields, len(extra)+2)
	for k, v := range extra {
		body[k] = v
	}
	body["success"] = false
	body["error"] = msg
	JSON(w, status, body)
}

// BadRequest writes a 400 failure envelope.
func BadRequest(w http.ResponseWriter, msg string) {
	Error(w, http.StatusBadRequest, msg, nil)
}

// TooManyRequests writes a 429 failure envelope.
func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, "too many requests", Fields{"code": "rate_limited"})
}

// InternalServerError writes a generic 500 failure envelope.
func InternalServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "internal server error", Fields{"code": "internal"})
}
