package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	authmw "storefront/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	CatalogHandler  *CatalogHTTP
	CartHandler     *CartHTTP
	AddressHandler  *AddressHTTP
	CheckoutHandler *CheckoutHTTP
	NotifyHandler   *NotifyHTTP
	JWTSecret       []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/auth/register", d.AuthHandler.Register)
	e.POST("/auth/login", d.AuthHandler.Login)

	e.GET("/products", d.CatalogHandler.ListProducts)
	e.GET("/products/:id", d.CatalogHandler.GetProduct)

	authMW := authmw.NewAuthMiddleware(d.JWTSecret)

	cart := e.Group("/cart")
	cart.Use(authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/items", d.CartHandler.AddToCart)
	cart.PATCH("/items/:productID", d.CartHandler.UpdateQuantity)
	cart.DELETE("/items/:productID", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	addrs := e.Group("/addresses")
	addrs.Use(authMW.RequireAuth)
	addrs.GET("", d.AddressHandler.List)
	addrs.POST("", d.AddressHandler.Save)
	addrs.DELETE("/:id", d.AddressHandler.Delete)

	orders := e.Group("/orders")
	orders.Use(authMW.RequireAuth)
	orders.POST("", d.CheckoutHandler.PlaceOrder)
	orders.GET("", d.CheckoutHandler.ListOrders)
	orders.GET("/:id", d.CheckoutHandler.GetOrder)
	orders.POST("/:id/resume", d.CheckoutHandler.Resume)

	notes := e.Group("/notifications")
	notes.Use(authMW.RequireAuth)
	notes.GET("", d.NotifyHandler.List)
	notes.DELETE("/:id", d.NotifyHandler.Dismiss)
}

// ownerID resolves the session owner placed in the context by the auth
// middleware.
func ownerID(c echo.Context) (uuid.UUID, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}
	return id, nil
}
