package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/hydroinv/backend-go/internal/classify"
	"github.com/andresuchdata/hydroinv/backend-go/internal/demand"
	"github.com/andresuchdata/hydroinv/backend-go/internal/health"
	"github.com/andresuchdata/hydroinv/backend-go/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	scorer, err := health.New(health.DefaultConfig())
	require.NoError(t, err)
	svc := service.NewAnalyticsService(
		classify.New(classify.DefaultConfig()),
		demand.New(demand.DefaultConfig()),
		scorer,
		nil,
		nil,
	)

	h := NewAnalyticsHandler(svc)
	router := gin.New()
	router.POST("/classification", h.ClassifyItems)
	router.POST("/demand", h.AnalyzeDemand)
	router.POST("/health", h.ScoreNewItems)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestClassifyItemsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/classification", `{
		"items": [
			{"item_code": "PUMP-A", "annual_sales_qty": 2500, "current_stock": 200, "item_age_days": 400, "days_since_last_sale": 2}
		]
	}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []struct {
			ItemCode       string `json:"item_code"`
			Classification string `json:"classification"`
			Method         string `json:"method"`
		} `json:"results"`
		Stats struct {
			Total      int `json:"total"`
			Classified int `json:"classified"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "PUMP-A", resp.Results[0].ItemCode)
	assert.Equal(t, "FAST", resp.Results[0].Classification)
	assert.Equal(t, "HYBRID", resp.Results[0].Method)
	assert.Equal(t, 1, resp.Stats.Classified)
}

func TestClassifyItemsEndpointValidation(t *testing.T) {
	router := newTestRouter(t)

	t.Run("missing items", func(t *testing.T) {
		w := postJSON(t, router, "/classification", `{"method": "hybrid"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown method", func(t *testing.T) {
		w := postJSON(t, router, "/classification", `{"method": "random_forest", "items": [{"item_code": "X"}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "random_forest")
	})

	t.Run("explicit method is honored", func(t *testing.T) {
		w := postJSON(t, router, "/classification", `{
			"method": "rule_based",
			"items": [{"item_code": "X", "item_age_days": 10}]
		}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"RULE_BASED"`)
	})
}

func TestAnalyzeDemandEndpoint(t *testing.T) {
	router := newTestRouter(t)

	t.Run("full year of history", func(t *testing.T) {
		w := postJSON(t, router, "/demand", `{
			"items": [
				{"item_code": "PUMP-A", "monthly_demand": [100,110,105,120,95,115,108,112,100,110,105,115]}
			]
		}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"SMOOTH"`)
	})

	t.Run("wrong series length", func(t *testing.T) {
		w := postJSON(t, router, "/demand", `{
			"items": [{"item_code": "PUMP-A", "monthly_demand": [1, 2, 3]}]
		}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "12")
	})
}

func TestScoreNewItemsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/health", `{
		"items": [
			{"item_code": "FILTER-X", "item_age_days": 15, "actual_sales_qty": 500, "target_sales_qty": 400,
			 "unique_customers": 35, "current_stock": 200, "avg_monthly_sales": 150}
		]
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"HEALTHY"`)
	assert.Contains(t, w.Body.String(), `"LAUNCH"`)
}
