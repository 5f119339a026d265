package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/hydroinv/backend-go/internal/classify"
	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
	"github.com/andresuchdata/hydroinv/backend-go/internal/ingest"
	"github.com/andresuchdata/hydroinv/backend-go/internal/repository"
	"github.com/andresuchdata/hydroinv/backend-go/internal/service"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

type classificationRequest struct {
	Method string               `json:"method"`
	Items  []domain.ItemMetrics `json:"items" binding:"required"`
}

func (h *AnalyticsHandler) ClassifyItems(c *gin.Context) {
	var req classificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	method := domain.MethodHybrid
	if req.Method != "" {
		parsed, ok := domain.ParseClassificationMethod(req.Method)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown classification method %q", req.Method)})
			return
		}
		method = parsed
	}

	results, stats, err := h.service.ClassifyItems(c.Request.Context(), req.Items, method)
	if err != nil {
		if errors.Is(err, classify.ErrUnknownMethod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "classification failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"stats":   stats,
	})
}

type demandItemRequest struct {
	ItemCode      string    `json:"item_code" binding:"required"`
	ItemName      string    `json:"item_name"`
	MonthlyDemand []float64 `json:"monthly_demand" binding:"required"`
	LeadTimeDays  float64   `json:"lead_time_days"`
}

type demandRequest struct {
	Items []demandItemRequest `json:"items" binding:"required"`
}

func (h *AnalyticsHandler) AnalyzeDemand(c *gin.Context) {
	var req demandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	rows := make([]ingest.DemandRow, 0, len(req.Items))
	for _, item := range req.Items {
		if len(item.MonthlyDemand) != domain.MonthsPerYear {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("item %s: monthly_demand must have exactly %d values, got %d",
					item.ItemCode, domain.MonthsPerYear, len(item.MonthlyDemand)),
			})
			return
		}

		row := ingest.DemandRow{
			ItemCode:     item.ItemCode,
			ItemName:     item.ItemName,
			LeadTimeDays: item.LeadTimeDays,
		}
		copy(row.Series[:], item.MonthlyDemand)
		rows = append(rows, row)
	}

	results, err := h.service.AnalyzeDemand(c.Request.Context(), rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "demand analysis failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

type healthRequest struct {
	Items []domain.NewItemMetrics `json:"items" binding:"required"`
}

func (h *AnalyticsHandler) ScoreNewItems(c *gin.Context) {
	var req healthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	results, err := h.service.ScoreNewItems(c.Request.Context(), req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "health scoring failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *AnalyticsHandler) ListClassifications(c *gin.Context) {
	filter := repository.ClassificationFilter{
		Page:     1,
		PageSize: 50,
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}

	if labels := strings.TrimSpace(c.Query("classification")); labels != "" {
		for _, label := range strings.Split(labels, ",") {
			label = strings.ToUpper(strings.TrimSpace(label))
			if label == "" {
				continue
			}
			if !domain.Classification(label).Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown classification %q", label)})
				return
			}
			filter.Labels = append(filter.Labels, label)
		}
	}

	if abc := strings.ToUpper(strings.TrimSpace(c.Query("abc_category"))); abc != "" {
		filter.ABCCategory = abc
	}

	items, total, err := h.service.ListClassifications(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch classifications", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
	})
}

func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.GetDashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch dashboard", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
