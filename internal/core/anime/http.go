// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/kanshi/internal/platform/request"
	"github.com/taibuivan/kanshi/internal/platform/respond"
	"github.com/taibuivan/kanshi/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer for anime detail, providers and the home hero.
type Handler struct {
	service        *Service
	defaultCountry string
}

// NewHandler constructs a new anime [Handler].
func NewHandler(service *Service, defaultCountry string) *Handler {
	return &Handler{service: service, defaultCountry: defaultCountry}
}

// Routes returns a [chi.Router] with the per-title endpoints, mounted at /v1/anime.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{id}", handler.detail)
	router.Get("/{id}/providers", handler.providers)
	return router
}

// HomeRoutes returns a [chi.Router] with the home page endpoints, mounted at /v1/home.
func (handler *Handler) HomeRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/hero", handler.hero)
	return router
}

// heroResponse wraps the hero selection.
type heroResponse struct {
	Items []AnimeCore `json:"items"`
}

/*
GET /v1/anime/{id}.

Description: Full detail record for one AniList id with country-aware providers.

Request:
  - id: int (AniList id)
  - country: string (two letters, default DEFAULT_COUNTRY)

Response:
  - 200: AnimeCore
  - 400: VALIDATION_ERROR
  - 404: {"error":"Anime not found in AniList"}
*/
func (handler *Handler) detail(writer http.ResponseWriter, request *http.Request) {
	id, country, err := handler.parseTitleRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	core, err := handler.service.Get(request.Context(), id, country)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, core)
}

/*
GET /v1/anime/{id}/providers.

Description: Legal streaming providers for one title in one region.

Response:
  - 200: ProvidersResult
  - 400: VALIDATION_ERROR
  - 404: {"error":"Anime not found in AniList"}
*/
func (handler *Handler) providers(writer http.ResponseWriter, request *http.Request) {
	id, country, err := handler.parseTitleRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Providers(request.Context(), id, country)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
GET /v1/home/hero.

Description: Up to five popular airing titles with cinematic artwork. Cached for an hour.

Response:
  - 200: heroResponse
  - 502: UPSTREAM_ERROR
*/
func (handler *Handler) hero(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.service.Hero(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, heroResponse{Items: items})
}

// parseTitleRequest validates the id path parameter and the country query.
func (handler *Handler) parseTitleRequest(request *http.Request) (int, string, error) {
	id, err := requestutil.PositiveIntParam(request, "id")
	if err != nil {
		return 0, "", err
	}

	country := requestutil.Country(request, handler.defaultCountry)

	var validator validate.Validator
	if err := validator.Country("country", country).Err(); err != nil {
		return 0, "", err
	}
	return id, country, nil
}
