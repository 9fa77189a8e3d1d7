package bodega_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inventario/internal/api/bodega"
	"inventario/internal/domain"
	apperror "inventario/internal/errors"
	"inventario/internal/pkg/logger"
)

// MockBodegaService é uma implementação mock da interface BodegaService
type MockBodegaService struct {
	mock.Mock
}

func (m *MockBodegaService) CrearBodega(ctx domain.Context, b domain.Bodega) (domain.Bodega, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(domain.Bodega), args.Error(1)
}

func (m *MockBodegaService) ObtenerBodega(ctx domain.Context, id int64) (domain.Bodega, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Bodega), args.Error(1)
}

func (m *MockBodegaService) ListarBodegas(ctx domain.Context) ([]domain.Bodega, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Bodega), args.Error(1)
}

func (m *MockBodegaService) ActualizarBodega(ctx domain.Context, b domain.Bodega) (domain.Bodega, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(domain.Bodega), args.Error(1)
}

func (m *MockBodegaService) EliminarBodega(ctx domain.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func novoHandler(svc *MockBodegaService) *bodega.Handler {
	return bodega.NewHandler(svc, logger.NewLogger("fatal"))
}

// TestCrear_Success testa POST /api/bodegas com o marcador de status no corpo.
func TestCrear_Success(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	creada := domain.Bodega{ID: 1, Codigo: "BOG-01", Nombre: "Central", Direccion: "Calle 1"}
	mockSvc.On("CrearBodega", mock.Anything, mock.Anything).Return(creada, nil)

	body := `{"codigo":"BOG-01","nombre":"Central","direccion":"Calle 1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bodegas", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.BodegasHandler(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"status":"created"}`, rec.Body.String())
	mockSvc.AssertExpectations(t)
}

// TestCrear_BodyVacio testa POST /api/bodegas sem corpo.
func TestCrear_BodyVacio(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/bodegas", strings.NewReader(""))
	rec := httptest.NewRecorder()

	h.BodegasHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Body vacío", resp.Error)
	mockSvc.AssertNotCalled(t, "CrearBodega", mock.Anything, mock.Anything)
}

// TestCrear_JSONInvalido testa POST /api/bodegas com JSON malformado e o
// detalhe do parser no corpo da resposta.
func TestCrear_JSONInvalido(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/bodegas", strings.NewReader(`{"codigo":`))
	rec := httptest.NewRecorder()

	h.BodegasHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "JSON inválido", resp.Error)
	assert.NotEmpty(t, resp.Detalle)
}

// TestCrear_Validacion testa a resposta 400 para campos obrigatórios ausentes.
func TestCrear_Validacion(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	mockSvc.On("CrearBodega", mock.Anything, mock.Anything).
		Return(domain.Bodega{}, apperror.NewValidationError("codigo, nombre y direccion son obligatorios"))

	req := httptest.NewRequest(http.MethodPost, "/api/bodegas", strings.NewReader(`{"codigo":""}`))
	rec := httptest.NewRecorder()

	h.BodegasHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "codigo, nombre y direccion son obligatorios", resp.Error)
}

// TestListar_Success testa GET /api/bodegas.
func TestListar_Success(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	esperadas := []domain.Bodega{
		{ID: 1, Codigo: "BOG-01", Nombre: "Central", Direccion: "Calle 1"},
		{ID: 2, Codigo: "MED-01", Nombre: "Norte", Direccion: "Cra 50"},
	}
	mockSvc.On("ListarBodegas", mock.Anything).Return(esperadas, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/bodegas", nil)
	rec := httptest.NewRecorder()

	h.BodegasHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var bodegas []domain.Bodega
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bodegas))
	assert.Equal(t, esperadas, bodegas)
}

// TestListar_Vacio testa que a lista vazia serializa como [] e não null.
func TestListar_Vacio(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	mockSvc.On("ListarBodegas", mock.Anything).Return([]domain.Bodega(nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/bodegas", nil)
	rec := httptest.NewRecorder()

	h.BodegasHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

// TestObtener_NotFound testa o corpo em texto plano do 404.
func TestObtener_NotFound(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	mockSvc.On("ObtenerBodega", mock.Anything, int64(42)).
		Return(domain.Bodega{}, apperror.NewNotFoundError("Bodega não encontrada"))

	req := httptest.NewRequest(http.MethodGet, "/api/bodegas/42", nil)
	rec := httptest.NewRecorder()

	h.BodegaPorIDHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No encontrado", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

// TestObtener_IDInvalido testa a rejeição de ids não numéricos.
func TestObtener_IDInvalido(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/bodegas/abc", nil)
	rec := httptest.NewRecorder()

	h.BodegaPorIDHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "id inválido", resp.Error)
	mockSvc.AssertNotCalled(t, "ObtenerBodega", mock.Anything, mock.Anything)
}

// TestActualizar_IDDaURLPrevalece testa que o id da URL sobrepõe o do corpo.
func TestActualizar_IDDaURLPrevalece(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	esperada := domain.Bodega{ID: 5, Codigo: "CLO-01", Nombre: "Sur", Direccion: "Av 3N"}
	mockSvc.On("ActualizarBodega", mock.Anything, esperada).Return(esperada, nil)

	body := `{"id":999,"codigo":"CLO-01","nombre":"Sur","direccion":"Av 3N"}`
	req := httptest.NewRequest(http.MethodPut, "/api/bodegas/5", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.BodegaPorIDHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockSvc.AssertExpectations(t)
}

// TestEliminar_Success testa DELETE com 204 sem corpo.
func TestEliminar_Success(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	mockSvc.On("EliminarBodega", mock.Anything, int64(5)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/bodegas/5", nil)
	rec := httptest.NewRecorder()

	h.BodegaPorIDHandler(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

// TestEliminar_NotFound testa DELETE de uma bodega inexistente.
func TestEliminar_NotFound(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	mockSvc.On("EliminarBodega", mock.Anything, int64(123)).
		Return(apperror.NewNotFoundError("Bodega não encontrada"))

	req := httptest.NewRequest(http.MethodDelete, "/api/bodegas/123", nil)
	rec := httptest.NewRecorder()

	h.BodegaPorIDHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No encontrado", rec.Body.String())
}

// TestListar_ErroArmazenamento testa a resposta 500 com o diagnóstico do driver.
func TestListar_ErroArmazenamento(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	mockSvc.On("ListarBodegas", mock.Anything).
		Return([]domain.Bodega(nil), apperror.NewStorageError("Falha ao listar bodegas", assert.AnError))

	req := httptest.NewRequest(http.MethodGet, "/api/bodegas", nil)
	rec := httptest.NewRecorder()

	h.BodegasHandler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DB", resp.Error)
	assert.NotEmpty(t, resp.Message)
}

// TestListar_ErroInesperado testa a tradução genérica de erros não tipados:
// 500 com a mensagem padrão, sem vazar o erro interno no corpo.
func TestListar_ErroInesperado(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	mockSvc.On("ListarBodegas", mock.Anything).Return([]domain.Bodega(nil), assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/api/bodegas", nil)
	rec := httptest.NewRecorder()

	h.BodegasHandler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "server", resp.Error)
	assert.Equal(t, "Ocorreu um erro inesperado.", resp.Message)
}

// TestListar_ErroDeConfiguracao testa que erros tipados fora do contrato de
// wire caem no status sugerido pelo próprio erro.
func TestListar_ErroDeConfiguracao(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	mockSvc.On("ListarBodegas", mock.Anything).
		Return([]domain.Bodega(nil), apperror.NewConfigError("Faltam EVENT_BUS_BROKER / EVENT_BUS_ACCESS_KEY"))

	req := httptest.NewRequest(http.MethodGet, "/api/bodegas", nil)
	rec := httptest.NewRecorder()

	h.BodegasHandler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "server", resp.Error)
	assert.Contains(t, resp.Message, "EVENT_BUS_BROKER")
}

// TestMetodoNaoPermitido testa verbos fora do contrato da coleção.
func TestMetodoNaoPermitido(t *testing.T) {
	mockSvc := new(MockBodegaService)
	h := novoHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPatch, "/api/bodegas", nil)
	rec := httptest.NewRecorder()

	h.BodegasHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
