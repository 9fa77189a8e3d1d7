package router

import (
	"net/http"
	"time"

	"inventario/internal/api/bodega"
	"inventario/internal/api/producto"
	"inventario/internal/pkg/cache"
	"inventario/internal/pkg/middleware"
)

// NewBodegasRouter configura e retorna o roteador HTTP do serviço de bodegas.
// Recebe o Handler já inicializado por injeção de dependências.
func NewBodegasRouter(h *bodega.Handler, cacheClient cache.Client, limit int, period time.Duration) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	// Em projetos maiores, pode-se usar um mux de terceiros (e.g., gorilla/mux, chi)
	mux := http.NewServeMux()

	// --- 1. Rotas de Health Check ---
	mux.HandleFunc("/ping", PingHandler)

	// --- 2. Rotas do Módulo de Bodegas ---
	mux.HandleFunc("/api/bodegas", h.BodegasHandler)
	mux.HandleFunc("/api/bodegas/", h.BodegaPorIDHandler)

	// --- 3. Middlewares Globais ---
	return middleware.RateLimiter(cacheClient, limit, period)(mux)
}

// NewProductosRouter configura e retorna o roteador HTTP do serviço de productos.
func NewProductosRouter(h *producto.Handler, cacheClient cache.Client, limit int, period time.Duration) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ping", PingHandler)

	mux.HandleFunc("/api/productos", h.ProductosHandler)
	mux.HandleFunc("/api/productos/", h.ProductoPorIDHandler)

	return middleware.RateLimiter(cacheClient, limit, period)(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
