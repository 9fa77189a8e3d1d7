package domain

// Producto representa um item do inventário (a Entidade).
// BodegaID é uma referência anulável: um producto pode existir sem bodega,
// e a integridade referencial é responsabilidade da foreign key do banco,
// nunca da camada de aplicação.
type Producto struct {
	ID       int64   `json:"id"`
	SKU      string  `json:"sku"`
	Nombre   string  `json:"nombre"`
	Stock    int     `json:"stock"`
	Precio   float64 `json:"precio"`
	BodegaID *int64  `json:"bodegaId"`
}

// ProductoService é a interface que a camada de Serviço implementa.
type ProductoService interface {
	CrearProducto(ctx Context, producto Producto) (Producto, error)
	ObtenerProducto(ctx Context, id int64) (Producto, error)
	ListarProductos(ctx Context) ([]Producto, error)
	ActualizarProducto(ctx Context, producto Producto) (Producto, error)
	EliminarProducto(ctx Context, id int64) error
}
