package httpserver

import (
	"context"
	"time"

	"cart-operations/internal/domain"
	"cart-operations/internal/logging"
	usersvc "cart-operations/internal/service/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CartService interface {
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	CreateCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID, itemID string) (*domain.Cart, error)
}

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
}

type UserService interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	FindByName(ctx context.Context, name string) (*domain.User, error)
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds the services the router dispatches to.
type Deps struct {
	Carts              CartService
	Products           ProductService
	Users              UserService
	DB                 Pinger
	CORSAllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger logrus.FieldLogger, deps Deps) *gin.Engine {
	logger = logging.OrDiscard(logger)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), corsMiddleware(deps.CORSAllowedOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.DB))

	h := &handlers{carts: deps.Carts, products: deps.Products, users: deps.Users, logger: logger}

	carts := router.Group("/carts")
	carts.POST("", h.createCart)
	carts.GET("/:cartId", h.getCart)
	carts.POST("/:cartId/items", h.addItem)
	carts.PUT("/:cartId/items/:itemId", h.updateItemQuantity)
	carts.DELETE("/:cartId/items/:itemId", h.removeItem)

	router.GET("/products", h.listProducts)

	users := router.Group("/users")
	users.POST("", h.registerUser)
	users.GET("", h.findUser)
	users.GET("/:userId", h.getUser)

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		if len(origins) == 0 {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = origins
		}
	}
	return cors.New(cfg)
}

// requestLogger emits one structured entry per request. Server errors log at
// error level and client errors at warn.
func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"method":        c.Request.Method,
			"path":          path,
			"status_code":   status,
			"latency":       time.Since(start).String(),
			"client_ip":     c.ClientIP(),
			"response_size": c.Writer.Size(),
		})
		if msg := c.Errors.ByType(gin.ErrorTypePrivate).String(); msg != "" {
			entry = entry.WithField("error", msg)
		}

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}
