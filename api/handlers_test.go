package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-catalog-search/config"
	"github.com/gcbaptista/go-catalog-search/internal/analytics"
	"github.com/gcbaptista/go-catalog-search/internal/catalog"
	"github.com/gcbaptista/go-catalog-search/internal/jobs"
	testutil "github.com/gcbaptista/go-catalog-search/internal/testing"
	"github.com/gcbaptista/go-catalog-search/model"
	"github.com/gcbaptista/go-catalog-search/services"
)

func setupTestRouter(t *testing.T, settings *config.CatalogSettings) (*gin.Engine, *catalog.Service) {
	t.Helper()
	router, svc, _ := newTestServer(t, settings)
	return router, svc
}

func newTestServer(t *testing.T, settings *config.CatalogSettings) (*gin.Engine, *catalog.Service, Dependencies) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := testutil.CreateTestCatalog(t, settings, "")

	jobManager := jobs.NewManager(1, testutil.QuietLogger())
	jobManager.Start()
	t.Cleanup(jobManager.Stop)

	deps := Dependencies{
		Analytics: analytics.NewService(svc, analytics.Options{Logger: testutil.QuietLogger()}),
		Jobs:      jobManager,
		Logger:    testutil.QuietLogger(),
	}

	router := gin.New()
	router.Use(RequestIDMiddleware())
	SetupRoutes(router, svc, deps)
	return router, svc, deps
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func TestHealthCheckHandler(t *testing.T) {
	router, _ := setupTestRouter(t, nil)

	w := performRequest(router, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(5), body["vehicles"])
}

func TestGetStatsHandler(t *testing.T) {
	router, _ := setupTestRouter(t, nil)

	w := performRequest(router, "GET", "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats services.CatalogStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 5, stats.Vehicles)
	assert.Equal(t, 1, stats.ByClass["Super"])
}

func TestListVehiclesHandler(t *testing.T) {
	router, _ := setupTestRouter(t, nil)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedIDs    []string
	}{
		{"default page", "/vehicles", http.StatusOK,
			[]string{"enus-deity", "enus-sd", "pegassi-zentorno", "grotti-turismo", "karin-futo"}},
		{"second page", "/vehicles?page=2&page_size=2", http.StatusOK, []string{"pegassi-zentorno", "grotti-turismo"}},
		{"past the end", "/vehicles?page=9&page_size=2", http.StatusOK, []string{}},
		{"negative page", "/vehicles?page=-1", http.StatusBadRequest, nil},
		{"non-numeric page size", "/vehicles?page_size=ten", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "GET", tt.path, nil)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				assert.Equal(t, ErrorCodeValidationFailed, decodeAPIError(t, w).Code)
				return
			}

			var body struct {
				Vehicles []model.Vehicle `json:"vehicles"`
				Total    int             `json:"total"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, 5, body.Total)

			ids := make([]string, 0, len(body.Vehicles))
			for _, v := range body.Vehicles {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func TestGetVehicleHandler(t *testing.T) {
	router, _ := setupTestRouter(t, nil)

	w := performRequest(router, "GET", "/vehicles/pegassi-zentorno", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var v model.Vehicle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "Zentorno", v.Model)

	w = performRequest(router, "GET", "/vehicles/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	apiErr := decodeAPIError(t, w)
	assert.Equal(t, ErrorCodeVehicleNotFound, apiErr.Code)
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestReplaceVehiclesHandler(t *testing.T) {
	t.Run("json array", func(t *testing.T) {
		router, svc := setupTestRouter(t, nil)

		w := performRequest(router, "PUT", "/vehicles", []model.Vehicle{
			{ID: "bravado-banshee", Brand: "Bravado", Model: "Banshee", Class: "Sports"},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Len(t, svc.Vehicles(), 1)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		router, svc := setupTestRouter(t, nil)

		w := performRequest(router, "PUT", "/vehicles", []model.Vehicle{{ID: "a"}, {ID: "a"}})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrorCodeValidationFailed, decodeAPIError(t, w).Code)
		assert.Len(t, svc.Vehicles(), 5)
	})

	t.Run("invalid json", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		w := performRequest(router, "PUT", "/vehicles", "{not json")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrorCodeInvalidJSON, decodeAPIError(t, w).Code)
	})

	t.Run("csv feed", func(t *testing.T) {
		router, svc := setupTestRouter(t, nil)

		feed := "brand,model,class,price\nDinka,Jester,Sports,240000\nKarin,Kuruma,Sports,126350\n"
		req, _ := http.NewRequest("PUT", "/vehicles", strings.NewReader(feed))
		req.Header.Set("Content-Type", "text/csv")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		vehicles := svc.Vehicles()
		require.Len(t, vehicles, 2)
		assert.Equal(t, "Jester", vehicles[0].Model)
	})

	t.Run("malformed csv feed", func(t *testing.T) {
		router, svc := setupTestRouter(t, nil)

		feed := "brand,model,price\nDinka,Jester,cheap\n"
		req, _ := http.NewRequest("PUT", "/vehicles", strings.NewReader(feed))
		req.Header.Set("Content-Type", "text/csv")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrorCodeInvalidFeed, decodeAPIError(t, w).Code)
		assert.Len(t, svc.Vehicles(), 5)
	})
}

func TestSearchHandler(t *testing.T) {
	router, _ := setupTestRouter(t, nil)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedIDs    []string
		expectedPhase  string
	}{
		{
			name:           "strict match",
			body:           SearchRequest{Query: "Enus Deity"},
			expectedStatus: http.StatusOK,
			expectedIDs:    []string{"enus-deity"},
			expectedPhase:  "strict",
		},
		{
			name:           "typo",
			body:           SearchRequest{Query: "Deitey"},
			expectedStatus: http.StatusOK,
			expectedIDs:    []string{"enus-deity"},
			expectedPhase:  "fuzzy",
		},
		{
			name:           "empty query browses",
			body:           SearchRequest{PageSize: 2},
			expectedStatus: http.StatusOK,
			expectedIDs:    []string{"enus-deity", "enus-sd"},
			expectedPhase:  "all",
		},
		{
			name: "filtered and sorted",
			body: SearchRequest{
				Filters: &services.Filters{Classes: []string{"Sports", "Super"}},
				SortBy:  "price", SortOrder: "desc",
			},
			expectedStatus: http.StatusOK,
			expectedIDs:    []string{"pegassi-zentorno", "karin-futo"},
			expectedPhase:  "all",
		},
		{
			name:           "invalid json",
			body:           "{",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "threshold out of range",
			body:           map[string]interface{}{"query": "enus", "threshold": 2},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unsearchable field",
			body:           SearchRequest{Query: "sedans", RestrictSearchableFields: []string{"class"}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown sort field",
			body:           SearchRequest{SortBy: "colour"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/_search", tt.body)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				code := decodeAPIError(t, w).Code
				assert.Contains(t, []ErrorCode{ErrorCodeInvalidQuery, ErrorCodeValidationFailed}, code)
				return
			}

			var result services.SearchResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Equal(t, tt.expectedIDs, testutil.HitIDs(result))
			assert.Equal(t, tt.expectedPhase, result.Phase)
			assert.NotEmpty(t, result.QueryId)
		})
	}
}

func TestListHandlers(t *testing.T) {
	settings := config.DefaultCatalogSettings()
	settings.ComparisonLimit = 2
	router, _ := setupTestRouter(t, &settings)

	w := performRequest(router, "PUT", "/lists/comparison/enus-deity", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = performRequest(router, "PUT", "/lists/comparison/karin-futo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	// Idempotent
	w = performRequest(router, "PUT", "/lists/comparison/karin-futo", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, "PUT", "/lists/comparison/pegassi-zentorno", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, ErrorCodeListFull, decodeAPIError(t, w).Code)

	w = performRequest(router, "PUT", "/lists/favorites/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorCodeVehicleNotFound, decodeAPIError(t, w).Code)

	w = performRequest(router, "GET", "/lists/wishlist", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorCodeUnknownList, decodeAPIError(t, w).Code)

	w = performRequest(router, "GET", "/compare", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var compared struct {
		Vehicles []model.Vehicle `json:"vehicles"`
		Limit    int             `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &compared))
	require.Len(t, compared.Vehicles, 2)
	assert.Equal(t, "enus-deity", compared.Vehicles[0].ID)
	assert.Equal(t, "karin-futo", compared.Vehicles[1].ID)
	assert.Equal(t, 2, compared.Limit)

	w = performRequest(router, "DELETE", "/lists/comparison/enus-deity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = performRequest(router, "DELETE", "/lists/comparison/enus-deity", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(router, "GET", "/lists/comparison", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Kind  string `json:"kind"`
		Total int    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, "comparison", list.Kind)
	assert.Equal(t, 1, list.Total)

	w = performRequest(router, "DELETE", "/lists/comparison", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = performRequest(router, "GET", "/lists/comparison", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Total)
}
