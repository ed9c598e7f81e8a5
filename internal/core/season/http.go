// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package season serves the seasonal listing endpoint. Aggregation is not
// implemented yet; the handler validates its input and returns an empty list.
package season

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/kanshi/internal/platform/request"
	"github.com/taibuivan/kanshi/internal/platform/respond"
	"github.com/taibuivan/kanshi/internal/platform/validate"
)

// Seasons as named by AniList.
const (
	Winter = "WINTER"
	Spring = "SPRING"
	Summer = "SUMMER"
	Fall   = "FALL"
)

// Valid years for a season query: AniList catalogues announced seasons a
// couple of years ahead.
const (
	firstSeasonYear = 1900
	seasonsAhead    = 2
)

// Handler implements the HTTP layer for seasonal listings.
type Handler struct {
	defaultCountry string
}

// NewHandler constructs a new season [Handler].
func NewHandler(defaultCountry string) *Handler {
	return &Handler{defaultCountry: defaultCountry}
}

// Routes returns a [chi.Router] configured with the season endpoint, mounted at /v1/season.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.list)
	return router
}

// listResponse is the placeholder payload.
type listResponse struct {
	Country string   `json:"country"`
	Season  *string  `json:"season"`
	Year    *int     `json:"year"`
	Items   []string `json:"items"`
}

/*
GET /v1/season.

Request:
  - country: string (two letters, default DEFAULT_COUNTRY)
  - season: string (WINTER, SPRING, SUMMER, FALL; optional)
  - year: int (optional)

Response:
  - 200: listResponse with no items
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	country := requestutil.Country(request, handler.defaultCountry)
	seasonParam := strings.ToUpper(requestutil.Query(request, "season"))
	yearParam := requestutil.Query(request, "year")

	var validator validate.Validator
	validator.Country("country", country)
	if seasonParam != "" {
		validator.OneOf("season", seasonParam, Winter, Spring, Summer, Fall)
	}

	response := listResponse{Country: country, Items: []string{}}
	if yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			validator.Custom("year", true, "Must be a number")
		} else {
			validator.Range("year", year, firstSeasonYear, time.Now().Year()+seasonsAhead)
		}
		response.Year = &year
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if seasonParam != "" {
		response.Season = &seasonParam
	}

	respond.OK(writer, response)
}
