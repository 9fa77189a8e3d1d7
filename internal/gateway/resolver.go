package gateway

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/graphql-go/graphql"

	"inventario/internal/pkg/logger"
)

// Resolver concentra a resolução dos campos do schema sobre os dois serviços
// de registro. A resolução aninhada Bodega.productos segue deliberadamente o
// padrão N+1 (uma busca completa de productos por bodega pai, filtrada em
// memória); por isso ela vive atrás deste tipo, para que uma estratégia com
// batching possa substituí-la sem tocar no contrato do schema.
type Resolver struct {
	bodegas   *RecordClient
	productos *RecordClient
	logger    logger.Logger
}

// NewResolver cria o resolver do gateway com os clientes downstream.
func NewResolver(bodegas, productos *RecordClient, log logger.Logger) *Resolver {
	return &Resolver{bodegas: bodegas, productos: productos, logger: log}
}

// Bodegas resolve a query `bodegas`: a lista completa do serviço de bodegas.
func (r *Resolver) Bodegas(p graphql.ResolveParams) (interface{}, error) {
	return r.bodegas.GetList(p.Context, "/api/bodegas")
}

// Bodega resolve a query `bodega(id)`: proxy simples de Get.
func (r *Resolver) Bodega(p graphql.ResolveParams) (interface{}, error) {
	id := fmt.Sprintf("%v", p.Args["id"])
	return r.bodegas.GetObject(p.Context, "/api/bodegas/"+id)
}

// Productos resolve a query `productos(bodegaId?)`: a lista completa do
// serviço de productos, filtrada em memória quando o argumento está presente.
// Filtro ausente ou em branco devolve a lista inteira.
func (r *Resolver) Productos(p graphql.ResolveParams) (interface{}, error) {
	list, err := r.productos.GetList(p.Context, "/api/productos")
	if err != nil {
		return nil, err
	}

	bodegaID, _ := p.Args["bodegaId"].(string)
	if strings.TrimSpace(bodegaID) == "" {
		return list, nil
	}
	return filtrarPorBodega(list, bodegaID), nil
}

// Producto resolve a query `producto(id)`: proxy simples de Get.
func (r *Resolver) Producto(p graphql.ResolveParams) (interface{}, error) {
	id := fmt.Sprintf("%v", p.Args["id"])
	return r.productos.GetObject(p.Context, "/api/productos/"+id)
}

// BodegaProductos resolve o campo aninhado `Bodega.productos`: uma busca
// completa de productos por bodega pai, filtrada pelo id da bodega de origem.
func (r *Resolver) BodegaProductos(p graphql.ResolveParams) (interface{}, error) {
	bodega, ok := p.Source.(map[string]interface{})
	if !ok {
		return []map[string]interface{}{}, nil
	}
	idObj, ok := bodega["id"]
	if !ok || idObj == nil {
		return []map[string]interface{}{}, nil
	}

	list, err := r.productos.GetList(p.Context, "/api/productos")
	if err != nil {
		return nil, err
	}
	return filtrarPorBodega(list, formatearID(idObj)), nil
}

// CrearProducto resolve a mutação `crearProducto`: normaliza o payload e o
// encaminha como Create ao serviço de productos, ecoando a entidade criada.
func (r *Resolver) CrearProducto(p graphql.ResolveParams) (interface{}, error) {
	payload := map[string]interface{}{
		"sku":    p.Args["sku"],
		"nombre": p.Args["nombre"],
		"stock":  0,
		"precio": 0.0,
	}
	if stock, ok := p.Args["stock"].(int); ok {
		payload["stock"] = stock
	}
	if precio, ok := p.Args["precio"].(float64); ok {
		payload["precio"] = precio
	}

	// bodegaId chega como ID (string); parse para o tipo numérico do serviço
	// de productos, ausente quando não parseável.
	payload["bodegaId"] = nil
	if bodegaID, ok := p.Args["bodegaId"].(string); ok && strings.TrimSpace(bodegaID) != "" {
		if id, err := strconv.ParseInt(bodegaID, 10, 64); err == nil {
			payload["bodegaId"] = id
		}
	}

	creado, err := r.productos.PostObject(p.Context, "/api/productos", payload)
	if err != nil {
		return nil, err
	}
	if creado == nil {
		// Downstream respondeu sucesso com corpo vazio.
		return map[string]interface{}{"status": "created"}, nil
	}
	return creado, nil
}

// filtrarPorBodega devolve o subconjunto cuja referência de bodega coincide,
// preservando a ordem da lista de origem.
func filtrarPorBodega(list []map[string]interface{}, bodegaID string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(list))
	for _, p := range list {
		bid, ok := p["bodegaId"]
		if !ok || bid == nil {
			continue
		}
		if formatearID(bid) == bodegaID {
			out = append(out, p)
		}
	}
	return out
}

// formatearID normaliza um id vindo de JSON (número ou string) para a forma
// textual usada na comparação.
func formatearID(v interface{}) string {
	switch id := v.(type) {
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case string:
		return id
	default:
		return fmt.Sprintf("%v", id)
	}
}
