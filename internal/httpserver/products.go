package httpserver

import (
	"log"
	"net/http"

	"driphorizon/internal/domain"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	deps   Deps
	logger *log.Logger
}

type productResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	PriceCents int64  `json:"priceCents"`
	ImageRef   string `json:"imageRef"`
	Category   string `json:"category,omitempty"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:         p.ID,
		Name:       p.Name,
		Price:      domain.FormatCents(p.UnitPriceCents),
		PriceCents: p.UnitPriceCents,
		ImageRef:   p.ImageRef,
		Category:   p.Category,
	}
}

func (h *handlers) listProducts(c *gin.Context) {
	products := h.deps.Catalog.List(c.Query("category"))
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok", "count": len(out), "results": out})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.Catalog.Lookup(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok", "product": toProductResponse(p)})
}
