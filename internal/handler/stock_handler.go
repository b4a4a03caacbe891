package handler

import (
	"net/http"
	"strconv"

	"bizledger/internal/middleware"
	"bizledger/internal/service"
	"bizledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stockService service.StockService
	jwtSecret    []byte
}

func NewStockHandler(stockService service.StockService, jwtSecret []byte) *StockHandler {
	return &StockHandler{stockService: stockService, jwtSecret: jwtSecret}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	stock := router.Group("/api/stock", middleware.RequireAuth(h.jwtSecret))
	{
		stock.GET("", h.ListStockLevels)
		stock.GET("/low", h.GetLowStock)
		stock.GET("/:productId", h.GetStock)
		stock.PUT("/:productId", h.SetStock)
	}
}

// ListStockLevels returns stock levels for all products
// @Summary      List stock levels
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.StockLevelResponse}
// @Router       /api/stock [get]
func (h *StockHandler) ListStockLevels(c *gin.Context) {
	levels, err := h.stockService.ListStockLevels(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, levels))
}

// GetLowStock returns products at or below the low-stock threshold
// @Summary      Low stock products
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        threshold  query     int  false  "Threshold (default: 10)"
// @Success      200        {object}  response.Response{data=[]service.ProductResponse}
// @Router       /api/stock/low [get]
func (h *StockHandler) GetLowStock(c *gin.Context) {
	threshold := 0
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid threshold"))
			return
		}
		threshold = parsed
	}

	products, err := h.stockService.GetLowStockProducts(c.Request.Context(), middleware.UserID(c), threshold)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// GetStock returns the stock level for one product
// @Summary      Get stock level
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        productId  path      string  true  "Product ID"
// @Success      200        {object}  response.Response{data=service.StockLevelResponse}
// @Router       /api/stock/{productId} [get]
func (h *StockHandler) GetStock(c *gin.Context) {
	level, err := h.stockService.GetStock(c.Request.Context(), middleware.UserID(c), c.Param("productId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, level))
}

// SetStock overrides the stock level for one product
// @Summary      Set stock level
// @Tags         stock
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        productId  path      string                   true  "Product ID"
// @Param        payload    body      service.SetStockRequest  true  "Stock payload"
// @Success      200        {object}  response.Response{data=service.StockLevelResponse}
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /api/stock/{productId} [put]
func (h *StockHandler) SetStock(c *gin.Context) {
	var req service.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	level, err := h.stockService.SetStock(c.Request.Context(), middleware.UserID(c), c.Param("productId"), req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, level))
}
