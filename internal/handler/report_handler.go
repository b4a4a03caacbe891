package handler

import (
	"net/http"
	"strconv"
	"time"

	"bizledger/internal/middleware"
	"bizledger/internal/service"
	"bizledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
	jwtSecret     []byte
}

func NewReportHandler(reportService service.ReportService, jwtSecret []byte) *ReportHandler {
	return &ReportHandler{reportService: reportService, jwtSecret: jwtSecret}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports", middleware.RequireAuth(h.jwtSecret))
	{
		reports.GET("/summary", h.GetSummary)
		reports.GET("/top-products", h.GetTopProducts)
		reports.GET("/by-vendor", h.GetVendorBreakdown)
		reports.GET("/by-category", h.GetCategoryBreakdown)
		reports.GET("/daily", h.GetDailyBreakdown)
	}
}

// GetSummary returns revenue, profit and transaction counts for a range
// @Summary      Financial summary
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start  query     string  false  "Range start (RFC3339 or YYYY-MM-DD)"
// @Param        end    query     string  false  "Range end (RFC3339 or YYYY-MM-DD)"
// @Success      200    {object}  response.Response{data=model.FinancialSummary}
// @Router       /api/reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	start, end, err := parseTimeRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	summary, err := h.reportService.GetSummary(c.Request.Context(), middleware.UserID(c), start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// GetTopProducts returns products ranked by quantity sold
// @Summary      Top selling products
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query     int  false  "Number of results (default: 5)"
// @Success      200    {object}  response.Response{data=[]model.ProductRanking}
// @Router       /api/reports/top-products [get]
func (h *ReportHandler) GetTopProducts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid limit"))
			return
		}
		limit = parsed
	}

	rankings, err := h.reportService.GetTopSellingProducts(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rankings))
}

// GetVendorBreakdown returns purchase totals grouped by vendor
// @Summary      Purchases by vendor
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start  query     string  false  "Range start (RFC3339 or YYYY-MM-DD)"
// @Param        end    query     string  false  "Range end (RFC3339 or YYYY-MM-DD)"
// @Success      200    {object}  response.Response{data=[]model.VendorBreakdownRow}
// @Router       /api/reports/by-vendor [get]
func (h *ReportHandler) GetVendorBreakdown(c *gin.Context) {
	start, end, err := parseTimeRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	rows, err := h.reportService.GetVendorBreakdown(c.Request.Context(), middleware.UserID(c), start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// GetCategoryBreakdown returns sale totals grouped by product category
// @Summary      Sales by category
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start  query     string  false  "Range start (RFC3339 or YYYY-MM-DD)"
// @Param        end    query     string  false  "Range end (RFC3339 or YYYY-MM-DD)"
// @Success      200    {object}  response.Response{data=[]model.CategoryBreakdownRow}
// @Router       /api/reports/by-category [get]
func (h *ReportHandler) GetCategoryBreakdown(c *gin.Context) {
	start, end, err := parseTimeRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	rows, err := h.reportService.GetCategoryBreakdown(c.Request.Context(), middleware.UserID(c), start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// GetDailyBreakdown returns per-day purchase, sale and profit totals
// @Summary      Daily breakdown
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start  query     string  false  "Range start (default: 30 days ago)"
// @Param        end    query     string  false  "Range end (default: now)"
// @Success      200    {object}  response.Response{data=[]model.DailyBreakdownRow}
// @Router       /api/reports/daily [get]
func (h *ReportHandler) GetDailyBreakdown(c *gin.Context) {
	startPtr, endPtr, err := parseTimeRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	end := time.Now().UTC()
	if endPtr != nil {
		end = *endPtr
	}
	start := end.AddDate(0, 0, -30)
	if startPtr != nil {
		start = *startPtr
	}

	rows, err := h.reportService.GetDailyBreakdown(c.Request.Context(), middleware.UserID(c), start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}
