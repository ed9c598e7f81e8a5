// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artwork

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/kanshi/internal/platform/request"
	"github.com/taibuivan/kanshi/internal/platform/respond"
	"github.com/taibuivan/kanshi/internal/platform/validate"
	"github.com/taibuivan/kanshi/internal/upstream/tmdb"
)

// # Handler Implementation

// Handler exposes raw TMDB backdrop candidates.
type Handler struct {
	resolver  *Resolver
	languages []string
}

// NewHandler constructs a new artwork [Handler]. languages is the default
// preference used when the request carries no "lang".
func NewHandler(resolver *Resolver, languages []string) *Handler {
	return &Handler{resolver: resolver, languages: languages}
}

// Routes returns a [chi.Router] configured with the artwork endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{tmdbId}", handler.candidates)
	return router
}

// candidatesResponse is the artwork endpoint payload.
type candidatesResponse struct {
	TMDBID     int         `json:"tmdbId"`
	Type       tmdb.Kind   `json:"type"`
	Candidates []Candidate `json:"candidates"`
}

/*
GET /v1/artwork/{tmdbId}.

Description: Lists filtered and ranked landscape backdrops for one TMDB title.

Request:
  - tmdbId: int
  - lang: []string (e.g. es,en,null)
  - type: string (tv, movie; default tv)

Response:
  - 200: candidatesResponse
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) candidates(writer http.ResponseWriter, request *http.Request) {
	tmdbID, err := requestutil.PositiveIntParam(request, "tmdbId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	kindParam := requestutil.Query(request, "type")
	if kindParam != "" {
		var validator validate.Validator
		if err := validator.OneOf("type", kindParam, string(tmdb.KindTV), string(tmdb.KindMovie)).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}
	kind := tmdb.ParseKind(kindParam)

	languages := requestutil.QueryList(request, "lang")
	if len(languages) == 0 {
		languages = handler.languages
	}

	candidates := handler.resolver.Candidates(request.Context(), kind, tmdbID, DefaultOptions(languages))

	respond.OK(writer, candidatesResponse{TMDBID: tmdbID, Type: kind, Candidates: candidates})
}
