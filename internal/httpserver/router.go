package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"driphorizon/internal/domain"
	"driphorizon/internal/metrics"
	"driphorizon/internal/service/checkout"
	"driphorizon/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogService interface {
	Lookup(id string) (domain.Product, error)
	List(category string) []domain.Product
}

type checkoutService interface {
	SelectProduct(ctx context.Context, sessionID, productID string) (domain.CartDraft, error)
	SetQuantity(ctx context.Context, sessionID string, qty int) (domain.CartDraft, error)
	ViewCart(ctx context.Context, sessionID string) checkout.CartView
	SubmitShippingInfo(ctx context.Context, sessionID string, in checkout.ShippingInput) (domain.CartDraft, error)
	FinalizePurchase(ctx context.Context, sessionID string, owner domain.Identity) (*checkout.Receipt, error)
}

type orderService interface {
	CancelOrder(ctx context.Context, orderID, requesterID int64, reason string) (*domain.Order, error)
	AdminSetStatus(ctx context.Context, actor domain.Identity, orderID int64, status string) (*domain.Order, error)
	ListOwnerOrders(ctx context.Context, userID int64) ([]domain.Order, error)
	ListActiveOrdersForAdmin(ctx context.Context, actor domain.Identity) ([]domain.Order, error)
}

type userService interface {
	Signup(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (domain.Identity, error)
}

// Deps holds everything the router needs. Metrics may be nil.
type Deps struct {
	Catalog     catalogService
	Checkout    checkoutService
	Orders      orderService
	Users       userService
	Sessions    session.Store
	Signer      *session.Signer
	Metrics     *metrics.Metrics
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Checkout == nil || deps.Orders == nil || deps.Users == nil {
		return nil, errors.New("httpserver: catalog, checkout, orders and users are required")
	}
	if deps.Sessions == nil || deps.Signer == nil {
		return nil, errors.New("httpserver: session store and signer are required")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.Use(metricsMiddleware(deps.Metrics))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	h := &handlers{deps: deps, logger: logger}

	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)

	shop := router.Group("/", sessionMiddleware(deps.Sessions, deps.Signer))
	shop.POST("/cart/select/:productId", h.selectProduct)
	shop.PUT("/cart/quantity", h.setQuantity)
	shop.GET("/cart", h.viewCart)
	shop.POST("/cart/shipping", h.submitShipping)
	shop.POST("/checkout/finalize", h.finalize)

	shop.POST("/signup", h.signup)
	shop.POST("/login", h.login)
	shop.POST("/logout", h.logout)

	owner := shop.Group("/orders", requireLogin())
	owner.GET("", h.listOwnerOrders)
	owner.POST("/:id/cancel", h.cancelOrder)

	admin := shop.Group("/admin", requireAdmin())
	admin.GET("/orders", h.listAdminOrders)
	admin.PUT("/orders/:id/status", h.adminSetStatus)

	return router, nil
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, statusLabel(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Microseconds()) / 1000)
	}
}
