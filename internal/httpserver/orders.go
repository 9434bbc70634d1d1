package httpserver

import (
	"net/http"
	"strconv"

	"driphorizon/internal/domain"
	"github.com/gin-gonic/gin"
)

type cancelRequest struct {
	Reason string `json:"reason"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	domain.Order
	Total string `json:"total"`
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderResponse{Order: o, Total: domain.FormatCents(o.TotalPriceCents)})
	}
	return out
}

func parseOrderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, nil, domain.NewValidationError("order_id"))
		return 0, false
	}
	return id, true
}

func (h *handlers) listOwnerOrders(c *gin.Context) {
	orders, err := h.deps.Orders.ListOwnerOrders(c.Request.Context(), currentSession(c).Identity.UserID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok", "count": len(orders), "results": toOrderResponses(orders)})
}

func (h *handlers) cancelOrder(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.NewValidationError("reason"))
		return
	}
	o, err := h.deps.Orders.CancelOrder(c.Request.Context(), id, currentSession(c).Identity.UserID, req.Reason)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully.", "order": o})
}

func (h *handlers) listAdminOrders(c *gin.Context) {
	orders, err := h.deps.Orders.ListActiveOrdersForAdmin(c.Request.Context(), currentSession(c).Identity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok", "count": len(orders), "results": toOrderResponses(orders)})
}

func (h *handlers) adminSetStatus(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.NewValidationError("status"))
		return
	}
	o, err := h.deps.Orders.AdminSetStatus(c.Request.Context(), currentSession(c).Identity, id, req.Status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated to " + string(o.Status) + ".", "order": o})
}
