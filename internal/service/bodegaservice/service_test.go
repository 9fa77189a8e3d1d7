package bodegaservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"inventario/internal/domain"
	apperror "inventario/internal/errors"
	"inventario/internal/events"
	"inventario/internal/pkg/logger"
	"inventario/internal/service/bodegaservice"
)

// MockBodegaRepository é uma implementação mock da interface BodegaRepository
type MockBodegaRepository struct {
	mock.Mock
}

func (m *MockBodegaRepository) CrearBodega(ctx context.Context, bodega domain.Bodega) (domain.Bodega, error) {
	args := m.Called(ctx, bodega)
	return args.Get(0).(domain.Bodega), args.Error(1)
}

func (m *MockBodegaRepository) ObtenerBodega(ctx context.Context, id int64) (domain.Bodega, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Bodega), args.Error(1)
}

func (m *MockBodegaRepository) ListarBodegas(ctx context.Context) ([]domain.Bodega, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Bodega), args.Error(1)
}

func (m *MockBodegaRepository) ActualizarBodega(ctx context.Context, bodega domain.Bodega) (domain.Bodega, error) {
	args := m.Called(ctx, bodega)
	return args.Get(0).(domain.Bodega), args.Error(1)
}

func (m *MockBodegaRepository) EliminarBodega(ctx context.Context, id int64, reasignarA *int64) error {
	args := m.Called(ctx, id, reasignarA)
	return args.Error(0)
}

// MockEmisor é uma implementação mock da interface EventEmitter
type MockEmisor struct {
	mock.Mock
}

func (m *MockEmisor) Publish(tipo string, sujeto string, datos map[string]interface{}) error {
	args := m.Called(tipo, sujeto, datos)
	return args.Error(0)
}

// TestCrearBodega_Success testa a criação de uma bodega e a emissão do evento.
func TestCrearBodega_Success(t *testing.T) {
	mockRepo := new(MockBodegaRepository)
	mockEmisor := new(MockEmisor)
	mockLogger := logger.NewLogger("fatal")

	svc := bodegaservice.NewService(mockRepo, mockEmisor, "NULLIFY", 0, mockLogger)

	entrada := domain.Bodega{Codigo: "BOG-01", Nombre: "Central", Direccion: "Calle 1 #2-3"}
	creada := domain.Bodega{ID: 7, Codigo: "BOG-01", Nombre: "Central", Direccion: "Calle 1 #2-3"}

	mockRepo.On("CrearBodega", mock.Anything, entrada).Return(creada, nil)
	mockEmisor.On("Publish", events.TipoBodegaCreada, "/api/bodegas/7", mock.Anything).Return(nil)

	ctx := context.Background()
	resultado, err := svc.CrearBodega(ctx, entrada)

	assert.NoError(t, err)
	assert.Equal(t, creada, resultado)
	mockRepo.AssertExpectations(t)
	mockEmisor.AssertExpectations(t)
}

// TestCrearBodega_Fail_CamposObrigatorios testa a validação de campos em branco.
func TestCrearBodega_Fail_CamposObrigatorios(t *testing.T) {
	mockRepo := new(MockBodegaRepository)
	mockEmisor := new(MockEmisor)
	mockLogger := logger.NewLogger("fatal")

	svc := bodegaservice.NewService(mockRepo, mockEmisor, "NULLIFY", 0, mockLogger)

	ctx := context.Background()
	_, err := svc.CrearBodega(ctx, domain.Bodega{Codigo: "   ", Nombre: "Central", Direccion: "Calle 1"})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	// Nenhuma chamada ao repositório nem evento para entrada inválida
	mockRepo.AssertNotCalled(t, "CrearBodega", mock.Anything, mock.Anything)
	mockEmisor.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

// TestCrearBodega_EventoFalha_NaoPropaga testa que a falha do barramento não
// afeta o resultado da mutação.
func TestCrearBodega_EventoFalha_NaoPropaga(t *testing.T) {
	mockRepo := new(MockBodegaRepository)
	mockEmisor := new(MockEmisor)
	mockLogger := logger.NewLogger("fatal")

	svc := bodegaservice.NewService(mockRepo, mockEmisor, "NULLIFY", 0, mockLogger)

	creada := domain.Bodega{ID: 3, Codigo: "MED-01", Nombre: "Norte", Direccion: "Cra 50"}
	mockRepo.On("CrearBodega", mock.Anything, mock.Anything).Return(creada, nil)
	mockEmisor.On("Publish", events.TipoBodegaCreada, "/api/bodegas/3", mock.Anything).
		Return(apperror.NewConfigError("Faltam EVENT_BUS_BROKER / EVENT_BUS_ACCESS_KEY"))

	ctx := context.Background()
	resultado, err := svc.CrearBodega(ctx, domain.Bodega{Codigo: "MED-01", Nombre: "Norte", Direccion: "Cra 50"})

	assert.NoError(t, err)
	assert.Equal(t, creada, resultado)
	mockEmisor.AssertExpectations(t)
}

// TestEliminarBodega_Nullify testa a política padrão: dependentes ficam órfãos.
func TestEliminarBodega_Nullify(t *testing.T) {
	mockRepo := new(MockBodegaRepository)
	mockEmisor := new(MockEmisor)
	mockLogger := logger.NewLogger("fatal")

	svc := bodegaservice.NewService(mockRepo, mockEmisor, "NULLIFY", 0, mockLogger)

	mockRepo.On("EliminarBodega", mock.Anything, int64(4), (*int64)(nil)).Return(nil)
	mockEmisor.On("Publish", events.TipoBodegaEliminada, "/api/bodegas/4", map[string]interface{}{"id": int64(4)}).Return(nil)

	ctx := context.Background()
	err := svc.EliminarBodega(ctx, 4)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockEmisor.AssertExpectations(t)
}

// TestEliminarBodega_Default testa a reatribuição dos dependentes à bodega de respaldo.
func TestEliminarBodega_Default(t *testing.T) {
	mockRepo := new(MockBodegaRepository)
	mockEmisor := new(MockEmisor)
	mockLogger := logger.NewLogger("fatal")

	svc := bodegaservice.NewService(mockRepo, mockEmisor, "DEFAULT", 99, mockLogger)

	respaldo := int64(99)
	mockRepo.On("EliminarBodega", mock.Anything, int64(4), &respaldo).Return(nil)
	mockEmisor.On("Publish", events.TipoBodegaEliminada, "/api/bodegas/4", mock.Anything).Return(nil)

	ctx := context.Background()
	err := svc.EliminarBodega(ctx, 4)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestEliminarBodega_Default_AutoReferencia testa a degradação para NULLIFY
// quando a bodega de respaldo é a própria bodega eliminada.
func TestEliminarBodega_Default_AutoReferencia(t *testing.T) {
	mockRepo := new(MockBodegaRepository)
	mockEmisor := new(MockEmisor)
	mockLogger := logger.NewLogger("fatal")

	svc := bodegaservice.NewService(mockRepo, mockEmisor, "DEFAULT", 4, mockLogger)

	mockRepo.On("EliminarBodega", mock.Anything, int64(4), (*int64)(nil)).Return(nil)
	mockEmisor.On("Publish", events.TipoBodegaEliminada, "/api/bodegas/4", mock.Anything).Return(nil)

	ctx := context.Background()
	err := svc.EliminarBodega(ctx, 4)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestEliminarBodega_PoliticaInvalida testa a normalização de políticas
// desconhecidas para NULLIFY.
func TestEliminarBodega_PoliticaInvalida(t *testing.T) {
	mockRepo := new(MockBodegaRepository)
	mockEmisor := new(MockEmisor)
	mockLogger := logger.NewLogger("fatal")

	svc := bodegaservice.NewService(mockRepo, mockEmisor, "CASCADE", 99, mockLogger)

	mockRepo.On("EliminarBodega", mock.Anything, int64(8), (*int64)(nil)).Return(nil)
	mockEmisor.On("Publish", events.TipoBodegaEliminada, "/api/bodegas/8", mock.Anything).Return(nil)

	ctx := context.Background()
	err := svc.EliminarBodega(ctx, 8)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestEliminarBodega_NotFound_SemEvento testa que nada é emitido quando a
// bodega não existe.
func TestEliminarBodega_NotFound_SemEvento(t *testing.T) {
	mockRepo := new(MockBodegaRepository)
	mockEmisor := new(MockEmisor)
	mockLogger := logger.NewLogger("fatal")

	svc := bodegaservice.NewService(mockRepo, mockEmisor, "NULLIFY", 0, mockLogger)

	mockRepo.On("EliminarBodega", mock.Anything, int64(123), (*int64)(nil)).
		Return(apperror.NewNotFoundError("Bodega não encontrada"))

	ctx := context.Background()
	err := svc.EliminarBodega(ctx, 123)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockEmisor.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

// TestActualizarBodega_Success testa a atualização e o evento com o conjunto
// completo de campos.
func TestActualizarBodega_Success(t *testing.T) {
	mockRepo := new(MockBodegaRepository)
	mockEmisor := new(MockEmisor)
	mockLogger := logger.NewLogger("fatal")

	svc := bodegaservice.NewService(mockRepo, mockEmisor, "NULLIFY", 0, mockLogger)

	actualizada := domain.Bodega{ID: 2, Codigo: "CLO-01", Nombre: "Sur", Direccion: "Av 3N"}
	mockRepo.On("ActualizarBodega", mock.Anything, actualizada).Return(actualizada, nil)
	mockEmisor.On("Publish", events.TipoBodegaActualizada, "/api/bodegas/2", map[string]interface{}{
		"id":        int64(2),
		"codigo":    "CLO-01",
		"nombre":    "Sur",
		"direccion": "Av 3N",
	}).Return(nil)

	ctx := context.Background()
	resultado, err := svc.ActualizarBodega(ctx, actualizada)

	assert.NoError(t, err)
	assert.Equal(t, actualizada, resultado)
	mockRepo.AssertExpectations(t)
	mockEmisor.AssertExpectations(t)
}

// TestObtenerBodega_NotFound testa a propagação do erro do repositório.
func TestObtenerBodega_NotFound(t *testing.T) {
	mockRepo := new(MockBodegaRepository)
	mockEmisor := new(MockEmisor)
	mockLogger := logger.NewLogger("fatal")

	svc := bodegaservice.NewService(mockRepo, mockEmisor, "NULLIFY", 0, mockLogger)

	mockRepo.On("ObtenerBodega", mock.Anything, int64(55)).
		Return(domain.Bodega{}, apperror.NewNotFoundError("Bodega não encontrada"))

	ctx := context.Background()
	_, err := svc.ObtenerBodega(ctx, 55)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestListarBodegas_Success testa a listagem.
func TestListarBodegas_Success(t *testing.T) {
	mockRepo := new(MockBodegaRepository)
	mockEmisor := new(MockEmisor)
	mockLogger := logger.NewLogger("fatal")

	svc := bodegaservice.NewService(mockRepo, mockEmisor, "NULLIFY", 0, mockLogger)

	esperadas := []domain.Bodega{
		{ID: 1, Codigo: "BOG-01", Nombre: "Central", Direccion: "Calle 1"},
		{ID: 2, Codigo: "MED-01", Nombre: "Norte", Direccion: "Cra 50"},
	}
	mockRepo.On("ListarBodegas", mock.Anything).Return(esperadas, nil)

	ctx := context.Background()
	bodegas, err := svc.ListarBodegas(ctx)

	assert.NoError(t, err)
	assert.Len(t, bodegas, 2)
	assert.Equal(t, esperadas, bodegas)
	mockRepo.AssertExpectations(t)
}
