package httpserver

import (
	"net/http"

	"driphorizon/internal/domain"
	"driphorizon/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type cartResponse struct {
	checkout.CartView
	UnitPrice string `json:"unitPrice,omitempty"`
	Subtotal  string `json:"subtotal,omitempty"`
}

func toCartResponse(v checkout.CartView) cartResponse {
	out := cartResponse{CartView: v}
	if !v.Empty {
		out.UnitPrice = domain.FormatCents(v.UnitPriceCents)
		out.Subtotal = domain.FormatCents(v.SubtotalCents)
	}
	return out
}

func (h *handlers) selectProduct(c *gin.Context) {
	sess := currentSession(c)
	draft, err := h.deps.Checkout.SelectProduct(c.Request.Context(), sess.ID, c.Param("productId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": draft.ProductName + " selected.",
		"cart":    toCartResponse(h.deps.Checkout.ViewCart(c.Request.Context(), sess.ID)),
	})
}

func (h *handlers) setQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		writeError(c, h.logger, domain.NewValidationError("quantity"))
		return
	}
	sess := currentSession(c)
	if _, err := h.deps.Checkout.SetQuantity(c.Request.Context(), sess.ID, *req.Quantity); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Quantity updated.",
		"cart":    toCartResponse(h.deps.Checkout.ViewCart(c.Request.Context(), sess.ID)),
	})
}

func (h *handlers) viewCart(c *gin.Context) {
	view := h.deps.Checkout.ViewCart(c.Request.Context(), currentSession(c).ID)
	msg := "ok"
	if view.Empty {
		msg = "Your cart is empty."
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "cart": toCartResponse(view)})
}

func (h *handlers) submitShipping(c *gin.Context) {
	var req checkout.ShippingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.NewValidationError("name", "address", "phone", "payment_method"))
		return
	}
	sess := currentSession(c)
	if _, err := h.deps.Checkout.SubmitShippingInfo(c.Request.Context(), sess.ID, req); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping details saved. Review your order and confirm.",
		"cart":    toCartResponse(h.deps.Checkout.ViewCart(c.Request.Context(), sess.ID)),
	})
}

func (h *handlers) finalize(c *gin.Context) {
	sess := currentSession(c)
	receipt, err := h.deps.Checkout.FinalizePurchase(c.Request.Context(), sess.ID, sess.Identity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	status := http.StatusOK
	if receipt.Persisted {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"message": receipt.Summary, "receipt": receipt})
}
