package productoservice

import (
	"context"
	"fmt"
	"strings"

	"inventario/internal/domain"
	apperror "inventario/internal/errors"
	"inventario/internal/events"
	"inventario/internal/pkg/logger"
)

// ProductoRepository define o contrato que o Serviço de Productos espera da
// camada de Persistência.
type ProductoRepository interface {
	CrearProducto(ctx context.Context, producto domain.Producto) (domain.Producto, error)
	ObtenerProducto(ctx context.Context, id int64) (domain.Producto, error)
	ListarProductos(ctx context.Context) ([]domain.Producto, error)
	ActualizarProducto(ctx context.Context, producto domain.Producto) (domain.Producto, error)
	EliminarProducto(ctx context.Context, id int64) error
}

// EventEmitter é a capacidade de publicar eventos de domínio.
type EventEmitter interface {
	Publish(tipo string, sujeto string, datos map[string]interface{}) error
}

// Service implementa a interface domain.ProductoService.
type Service struct {
	repo   ProductoRepository
	emisor EventEmitter
	umbral int // estoque abaixo disto dispara o sinal StockBajo
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Productos.
// umbral vem da configuração (UMBRAL_STOCK_BAJO, padrão 10).
func NewService(repo ProductoRepository, emisor EventEmitter, umbral int, log logger.Logger) *Service {
	return &Service{repo: repo, emisor: emisor, umbral: umbral, logger: log}
}

// CrearProducto cria um novo producto após validações de negócio e emite
// Inventario.Producto.Creado; se o estoque resultante ficou abaixo do umbral,
// emite também o sinal derivado Inventario.Producto.StockBajo.
//
// bodegaId passa sem validação: um producto apontando para uma bodega
// inexistente é assunto da foreign key do banco, não deste serviço.
func (s *Service) CrearProducto(ctx domain.Context, producto domain.Producto) (domain.Producto, error) {
	s.logger.Debug("Iniciando criação de producto no serviço.", map[string]interface{}{"sku": producto.SKU})

	if esBlanco(producto.SKU) || esBlanco(producto.Nombre) {
		return domain.Producto{}, apperror.NewValidationError("sku y nombre son obligatorios")
	}

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para CrearProducto", nil)
	}

	creado, err := s.repo.CrearProducto(ctxGo, producto)
	if err != nil {
		s.logger.Error("Falha ao criar producto no repositório.", err)
		return domain.Producto{}, err
	}

	s.emitir(events.TipoProductoCreado, sujetoProducto(creado.ID), datosProducto(creado))
	s.senalarStockBajo(creado)

	s.logger.Info("Producto criado com sucesso.", map[string]interface{}{"id": creado.ID, "sku": creado.SKU})
	return creado, nil
}

// ObtenerProducto busca um producto pelo ID.
func (s *Service) ObtenerProducto(ctx domain.Context, id int64) (domain.Producto, error) {
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para ObtenerProducto", nil)
	}

	producto, err := s.repo.ObtenerProducto(ctxGo, id)
	if err != nil {
		return domain.Producto{}, err // Erros do repositório já são NotFoundError ou StorageError
	}
	return producto, nil
}

// ListarProductos busca todos os productos.
func (s *Service) ListarProductos(ctx domain.Context) ([]domain.Producto, error) {
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para ListarProductos", nil)
	}

	productos, err := s.repo.ListarProductos(ctxGo)
	if err != nil {
		s.logger.Error("Falha ao buscar todos os productos no repositório.", err)
		return nil, err
	}
	return productos, nil
}

// ActualizarProducto atualiza um producto existente, emite
// Inventario.Producto.Actualizado e reavalia o sinal de estoque baixo sobre
// o estado pós-mutação.
func (s *Service) ActualizarProducto(ctx domain.Context, producto domain.Producto) (domain.Producto, error) {
	s.logger.Debug("Iniciando atualização de producto no serviço.", map[string]interface{}{"id": producto.ID})

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para ActualizarProducto", nil)
	}

	actualizado, err := s.repo.ActualizarProducto(ctxGo, producto)
	if err != nil {
		return domain.Producto{}, err
	}

	s.emitir(events.TipoProductoActualizado, sujetoProducto(actualizado.ID), datosProducto(actualizado))
	s.senalarStockBajo(actualizado)

	s.logger.Info("Producto atualizado com sucesso.", map[string]interface{}{"id": actualizado.ID})
	return actualizado, nil
}

// EliminarProducto remove um producto e emite Inventario.Producto.Eliminado
// somente quando uma linha foi de fato removida.
func (s *Service) EliminarProducto(ctx domain.Context, id int64) error {
	s.logger.Debug("Iniciando eliminação de producto no serviço.", map[string]interface{}{"id": id})

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para EliminarProducto", nil)
	}

	if err := s.repo.EliminarProducto(ctxGo, id); err != nil {
		s.logger.Error("Falha ao eliminar producto no repositório.", err)
		return err // NotFoundError não produz evento
	}

	s.emitir(events.TipoProductoEliminado, sujetoProducto(id), map[string]interface{}{
		"id": id,
	})

	s.logger.Info("Producto eliminado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// senalarStockBajo emite o sinal derivado quando o estoque pós-mutação está
// abaixo do umbral configurado. É uma notificação best-effort: atraso ou
// falha jamais afetam o sucesso da mutação primária.
func (s *Service) senalarStockBajo(p domain.Producto) {
	if p.Stock >= s.umbral {
		return
	}
	s.emitir(events.TipoProductoStockBajo, sujetoProducto(p.ID), map[string]interface{}{
		"id":     p.ID,
		"sku":    p.SKU,
		"stock":  p.Stock,
		"umbral": s.umbral,
	})
}

// emitir publica um evento de domínio engolindo falhas de despacho.
func (s *Service) emitir(tipo, sujeto string, datos map[string]interface{}) {
	if err := s.emisor.Publish(tipo, sujeto, datos); err != nil {
		s.logger.Error(fmt.Sprintf("Falha ao despachar evento %s.", tipo), err)
	}
}

func datosProducto(p domain.Producto) map[string]interface{} {
	return map[string]interface{}{
		"id":       p.ID,
		"sku":      p.SKU,
		"nombre":   p.Nombre,
		"stock":    p.Stock,
		"precio":   p.Precio,
		"bodegaId": p.BodegaID,
	}
}

func sujetoProducto(id int64) string {
	return fmt.Sprintf("/api/productos/%d", id)
}

func esBlanco(s string) bool {
	return strings.TrimSpace(s) == ""
}
