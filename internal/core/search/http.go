// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/kanshi/internal/platform/request"
	"github.com/taibuivan/kanshi/internal/platform/respond"
	"github.com/taibuivan/kanshi/internal/platform/validate"
	"github.com/taibuivan/kanshi/pkg/pagination"
)

// maxQueryLength bounds free-text search input.
const maxQueryLength = 200

// # Handler Implementation

// Handler implements the HTTP layer for search.
type Handler struct {
	service        *Service
	defaultCountry string
}

// NewHandler constructs a new search [Handler].
func NewHandler(service *Service, defaultCountry string) *Handler {
	return &Handler{service: service, defaultCountry: defaultCountry}
}

// Routes returns a [chi.Router] configured with the search endpoints, mounted at /v1/search.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.bestMatch)
	router.Get("/anime", handler.searchAnime)
	return router
}

/*
GET /v1/search.

Description: Best-match single result merged from TMDB, MAL and Kitsu.

Request:
  - title: string (required)
  - country: string (two letters, default DEFAULT_COUNTRY)

Response:
  - 200: Match
  - 400: VALIDATION_ERROR
  - 404: {"error":"Not found"}
*/
func (handler *Handler) bestMatch(writer http.ResponseWriter, request *http.Request) {
	title := requestutil.Query(request, "title")
	country := requestutil.Country(request, handler.defaultCountry)

	var validator validate.Validator
	validator.
		Required("title", title).
		MaxLen("title", title, maxQueryLength).
		Country("country", country)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	match, err := handler.service.BestMatch(request.Context(), title, country)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, match)
}

/*
GET /v1/search/anime.

Description: Paged AniList search re-ranked by title relevance.

Request:
  - q: string (required)
  - country: string (two letters, default DEFAULT_COUNTRY)
  - limit: int (default 10, max 50)
  - cursor: string (opaque token from a previous page)

Response:
  - 200: Result
  - 400: VALIDATION_ERROR
  - 502: UPSTREAM_ERROR
*/
func (handler *Handler) searchAnime(writer http.ResponseWriter, request *http.Request) {
	query := requestutil.Query(request, "q")
	country := requestutil.Country(request, handler.defaultCountry)

	var validator validate.Validator
	validator.
		Required("q", query).
		MaxLen("q", query, maxQueryLength).
		Country("country", country)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	limit := pagination.ClampLimit(requestutil.QueryInt(request, "limit", pagination.DefaultLimit))
	cursor := requestutil.Query(request, "cursor")

	result, err := handler.service.SearchAnime(request.Context(), query, country, limit, cursor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
