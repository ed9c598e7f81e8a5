// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package season_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanshi/internal/core/season"
)

func TestList_Placeholder(t *testing.T) {
	routes := season.NewHandler("MX").Routes()

	recorder := httptest.NewRecorder()
	routes.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?season=fall&year=2025&country=es", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"country":"ES","season":"FALL","year":2025,"items":[]}`, recorder.Body.String())
}

func TestList_Defaults(t *testing.T) {
	routes := season.NewHandler("MX").Routes()

	recorder := httptest.NewRecorder()
	routes.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"country":"MX","season":null,"year":null,"items":[]}`, recorder.Body.String())
}

func TestList_Validation(t *testing.T) {
	routes := season.NewHandler("MX").Routes()

	for _, target := range []string{
		"/?season=MONSOON",
		"/?year=soon",
		"/?year=1850",
		"/?year=2999",
		"/?country=MEX",
	} {
		recorder := httptest.NewRecorder()
		routes.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusBadRequest, recorder.Code, target)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "VALIDATION_ERROR", body["error"], target)
	}
}

/*
TestList_YearOutOfRange reports the accepted bounds for the year field.
*/
func TestList_YearOutOfRange(t *testing.T) {
	routes := season.NewHandler("MX").Routes()

	recorder := httptest.NewRecorder()
	routes.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?year=1850", nil))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var body struct {
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Details, 1)
	assert.Equal(t, "year", body.Details[0].Field)
	assert.Equal(t, fmt.Sprintf("Must be between 1900 and %d", time.Now().Year()+2), body.Details[0].Message)
}
