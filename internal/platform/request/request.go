// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
query parsing patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kanshi/internal/platform/validate"
)

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
PositiveIntParam parses a named URL parameter as a positive integer.

Returns:
  - int: Parsed identifier
  - error: VALIDATION_ERROR naming the parameter when parsing fails
*/
func PositiveIntParam(request *http.Request, name string) (int, error) {
	raw := chi.URLParam(request, name)
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}
	return value, nil
}

/*
Query returns the trimmed value of a query parameter.
*/
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

/*
QueryInt parses an integer query parameter, returning def when absent or malformed.
*/
func QueryInt(request *http.Request, name string, def int) int {
	raw := Query(request, name)
	if raw == "" {
		return def
	}
	if value, err := strconv.Atoi(raw); err == nil {
		return value
	}
	return def
}

/*
QueryList parses a comma-separated query parameter into a trimmed slice.
*/
func QueryList(request *http.Request, name string) []string {
	raw := Query(request, name)
	if raw == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(raw, ",") {
		if clean := strings.TrimSpace(v); clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

/*
Country resolves the "country" query parameter, falling back to def.
The value is upper-cased; validation happens in the handler.
*/
func Country(request *http.Request, def string) string {
	if country := Query(request, "country"); country != "" {
		return strings.ToUpper(country)
	}
	return def
}
