package domain

// Bodega representa um armazém físico do inventário (a Entidade).
// O id é gerado pelo banco; codigo é a chave de negócio, única por
// restrição do próprio banco, nunca validada na camada de aplicação.
type Bodega struct {
	ID        int64  `json:"id"`
	Codigo    string `json:"codigo"`
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion"`
}

// PoliticaEliminacion define o destino dos productos dependentes quando a
// bodega deles é eliminada.
type PoliticaEliminacion string

const (
	// PoliticaNullify desvincula os productos (bodega_id passa a NULL).
	PoliticaNullify PoliticaEliminacion = "NULLIFY"
	// PoliticaDefault reatribui os productos a uma bodega de respaldo.
	PoliticaDefault PoliticaEliminacion = "DEFAULT"
)

// --- Interfaces de Contrato ---

// BodegaService é a interface que a camada de Serviço implementa.
// Define o que o Handler (Camada API) pode pedir para a camada de Serviço fazer.
type BodegaService interface {
	CrearBodega(ctx Context, bodega Bodega) (Bodega, error)
	ObtenerBodega(ctx Context, id int64) (Bodega, error)
	ListarBodegas(ctx Context) ([]Bodega, error)
	ActualizarBodega(ctx Context, bodega Bodega) (Bodega, error)
	EliminarBodega(ctx Context, id int64) error
}

// Context é uma interface que encapsula o Go context.Context.
// É usado para propagar o timeout e sinais de cancelamento pelas camadas.
// Isso evita a dependência direta do pacote "context".
type Context interface{}
