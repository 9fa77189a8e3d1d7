package bodegaservice

import (
	"context"
	"fmt"
	"strings"

	"inventario/internal/domain"
	apperror "inventario/internal/errors"
	"inventario/internal/events"
	"inventario/internal/pkg/logger"
)

// BodegaRepository define o contrato que o Serviço de Bodegas espera da
// camada de Persistência.
type BodegaRepository interface {
	CrearBodega(ctx context.Context, bodega domain.Bodega) (domain.Bodega, error)
	ObtenerBodega(ctx context.Context, id int64) (domain.Bodega, error)
	ListarBodegas(ctx context.Context) ([]domain.Bodega, error)
	ActualizarBodega(ctx context.Context, bodega domain.Bodega) (domain.Bodega, error)
	EliminarBodega(ctx context.Context, id int64, reasignarA *int64) error
}

// EventEmitter é a capacidade de publicar eventos de domínio. A emissão é
// fire-and-forget: o resultado de uma mutação nunca depende dela.
type EventEmitter interface {
	Publish(tipo string, sujeto string, datos map[string]interface{}) error
}

// Service implementa a interface domain.BodegaService.
type Service struct {
	repo          BodegaRepository
	emisor        EventEmitter
	politica      domain.PoliticaEliminacion
	bodegaDefault int64
	logger        logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Bodegas.
// politica e bodegaDefault vêm da configuração (BODEGA_DELETE_POLICY /
// BODEGA_DEFAULT_ID).
func NewService(repo BodegaRepository, emisor EventEmitter, politica string, bodegaDefault int64, log logger.Logger) *Service {
	p := domain.PoliticaEliminacion(politica)
	if p != domain.PoliticaDefault {
		p = domain.PoliticaNullify
	}
	return &Service{
		repo:          repo,
		emisor:        emisor,
		politica:      p,
		bodegaDefault: bodegaDefault,
		logger:        log,
	}
}

// CrearBodega cria uma nova bodega após validações de negócio e emite
// Inventario.Bodega.Creada com o id resolvido.
func (s *Service) CrearBodega(ctx domain.Context, bodega domain.Bodega) (domain.Bodega, error) {
	s.logger.Debug("Iniciando criação de bodega no serviço.", map[string]interface{}{"codigo": bodega.Codigo})

	if esBlanco(bodega.Codigo) || esBlanco(bodega.Nombre) || esBlanco(bodega.Direccion) {
		return domain.Bodega{}, apperror.NewValidationError("codigo, nombre y direccion son obligatorios")
	}

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para CrearBodega", nil)
	}

	creada, err := s.repo.CrearBodega(ctxGo, bodega)
	if err != nil {
		s.logger.Error("Falha ao criar bodega no repositório.", err)
		return domain.Bodega{}, err
	}

	// Emissão pós-commit: a resposta nunca bloqueia na disponibilidade do barramento.
	s.emitir(events.TipoBodegaCreada, sujetoBodega(creada.ID), map[string]interface{}{
		"id":        creada.ID,
		"codigo":    creada.Codigo,
		"nombre":    creada.Nombre,
		"direccion": creada.Direccion,
	})

	s.logger.Info("Bodega criada com sucesso.", map[string]interface{}{"id": creada.ID, "codigo": creada.Codigo})
	return creada, nil
}

// ObtenerBodega busca uma bodega pelo ID.
func (s *Service) ObtenerBodega(ctx domain.Context, id int64) (domain.Bodega, error) {
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para ObtenerBodega", nil)
	}

	bodega, err := s.repo.ObtenerBodega(ctxGo, id)
	if err != nil {
		return domain.Bodega{}, err // Erros do repositório já são NotFoundError ou StorageError
	}
	return bodega, nil
}

// ListarBodegas busca todas as bodegas.
func (s *Service) ListarBodegas(ctx domain.Context) ([]domain.Bodega, error) {
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para ListarBodegas", nil)
	}

	bodegas, err := s.repo.ListarBodegas(ctxGo)
	if err != nil {
		s.logger.Error("Falha ao buscar todas as bodegas no repositório.", err)
		return nil, err
	}
	return bodegas, nil
}

// ActualizarBodega atualiza uma bodega existente e emite
// Inventario.Bodega.Actualizada com o conjunto completo pós-mutação.
func (s *Service) ActualizarBodega(ctx domain.Context, bodega domain.Bodega) (domain.Bodega, error) {
	s.logger.Debug("Iniciando atualização de bodega no serviço.", map[string]interface{}{"id": bodega.ID})

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para ActualizarBodega", nil)
	}

	actualizada, err := s.repo.ActualizarBodega(ctxGo, bodega)
	if err != nil {
		return domain.Bodega{}, err
	}

	s.emitir(events.TipoBodegaActualizada, sujetoBodega(actualizada.ID), map[string]interface{}{
		"id":        actualizada.ID,
		"codigo":    actualizada.Codigo,
		"nombre":    actualizada.Nombre,
		"direccion": actualizada.Direccion,
	})

	s.logger.Info("Bodega atualizada com sucesso.", map[string]interface{}{"id": actualizada.ID})
	return actualizada, nil
}

// EliminarBodega remove uma bodega aplicando a política de eliminação aos
// productos dependentes e emite Inventario.Bodega.Eliminada somente se a
// transação confirmou a remoção de exatamente uma linha.
func (s *Service) EliminarBodega(ctx domain.Context, id int64) error {
	s.logger.Debug("Iniciando eliminação de bodega no serviço.", map[string]interface{}{
		"id":       id,
		"politica": string(s.politica),
	})

	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
		s.logger.Warn("Contexto de domínio inválido, usando context.Background() para EliminarBodega", nil)
	}

	// Resolver a disposição dos dependentes. DEFAULT com respaldo igual à
	// própria bodega degradaria em auto-referência; cai para NULLIFY.
	var reasignarA *int64
	if s.politica == domain.PoliticaDefault && s.bodegaDefault != 0 && s.bodegaDefault != id {
		respaldo := s.bodegaDefault
		reasignarA = &respaldo
	}

	if err := s.repo.EliminarBodega(ctxGo, id, reasignarA); err != nil {
		s.logger.Error("Falha ao eliminar bodega no repositório.", err)
		return err // NotFoundError não produz evento
	}

	s.emitir(events.TipoBodegaEliminada, sujetoBodega(id), map[string]interface{}{
		"id": id,
	})

	s.logger.Info("Bodega eliminada com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// emitir publica um evento de domínio engolindo falhas de despacho: o sucesso
// da mutação é determinado apenas pelo commit no banco.
func (s *Service) emitir(tipo, sujeto string, datos map[string]interface{}) {
	if err := s.emisor.Publish(tipo, sujeto, datos); err != nil {
		s.logger.Error(fmt.Sprintf("Falha ao despachar evento %s.", tipo), err)
	}
}

func sujetoBodega(id int64) string {
	return fmt.Sprintf("/api/bodegas/%d", id)
}

func esBlanco(s string) bool {
	return strings.TrimSpace(s) == ""
}
