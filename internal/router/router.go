package router

import (
	"net/http"

	"gemkart/internal/handler"
	"gemkart/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	cartHandler *handler.CartHandler,
	discountHandler *handler.DiscountHandler,
	orderHandler *handler.OrderHandler,
	productHandler *handler.ProductHandler,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Catalogue (read-only)
	mux.HandleFunc("GET /api/products", productHandler.List)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)

	// Cart
	mux.HandleFunc("GET /api/cart", cartHandler.Get)
	mux.HandleFunc("POST /api/cart", cartHandler.Add)
	mux.HandleFunc("DELETE /api/cart", cartHandler.Clear)
	mux.HandleFunc("POST /api/cart/resolve", cartHandler.Resolve)
	mux.HandleFunc("PUT /api/cart/items/{id}", cartHandler.SetQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", cartHandler.Remove)

	// Add-ons
	mux.HandleFunc("POST /api/cart/items/{id}/addons", cartHandler.AttachAddon)
	mux.HandleFunc("PUT /api/cart/addons/{id}", cartHandler.UpdateAddon)
	mux.HandleFunc("DELETE /api/cart/addons/{id}", cartHandler.DetachAddon)

	// Discounts
	mux.HandleFunc("POST /api/discounts/preview", discountHandler.Preview)

	// Checkout and orders
	mux.HandleFunc("POST /api/checkout", orderHandler.Checkout)
	mux.HandleFunc("GET /api/orders", orderHandler.List)
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.GetByID)

	// Apply middleware chain (innermost first)
	var h http.Handler = mux
	h = middleware.UserAuth(logger)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(h)
	h = middleware.Recovery(logger)(h)

	return h
}
