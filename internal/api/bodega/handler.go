package bodega

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"inventario/internal/domain"
	apperror "inventario/internal/errors"
	"inventario/internal/pkg/logger"
)

// BodegaService define o contrato que o Handler espera da camada de Serviço.
type BodegaService interface {
	CrearBodega(ctx domain.Context, bodega domain.Bodega) (domain.Bodega, error)
	ObtenerBodega(ctx domain.Context, id int64) (domain.Bodega, error)
	ListarBodegas(ctx domain.Context) ([]domain.Bodega, error)
	ActualizarBodega(ctx domain.Context, bodega domain.Bodega) (domain.Bodega, error)
	EliminarBodega(ctx domain.Context, id int64) error
}

// Handler agrupa todos os métodos de Handler de bodegas.
type Handler struct {
	Service BodegaService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc BodegaService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// BodegasHandler lida com a rota de coleção /api/bodegas (GET e POST).
func (h *Handler) BodegasHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listar(w, r)
	case http.MethodPost:
		h.crear(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// BodegaPorIDHandler lida com a rota /api/bodegas/{id} (GET, PUT e DELETE).
func (h *Handler) BodegaPorIDHandler(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/bodegas/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		escribirJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "id inválido"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.obtener(w, r, id)
	case http.MethodPut:
		h.actualizar(w, r, id)
	case http.MethodDelete:
		h.eliminar(w, r, id)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// listar responde GET /api/bodegas.
// @Summary Lista todas as bodegas
// @Produce json
// @Success 200 {array} domain.Bodega "Lista de bodegas ordenada por id"
// @Failure 500 {object} domain.ErrorResponse "Erro de armazenamento"
// @Router /api/bodegas [get]
func (h *Handler) listar(w http.ResponseWriter, r *http.Request) {
	bodegas, err := h.Service.ListarBodegas(r.Context())
	if err != nil {
		h.responderError(w, r, err)
		return
	}
	if bodegas == nil {
		bodegas = []domain.Bodega{}
	}
	escribirJSON(w, http.StatusOK, bodegas)
}

// obtener responde GET /api/bodegas/{id}.
// @Summary Obtém uma bodega por ID
// @Produce json
// @Success 200 {object} domain.Bodega "Bodega encontrada"
// @Failure 404 {string} string "No encontrado"
// @Router /api/bodegas/{id} [get]
func (h *Handler) obtener(w http.ResponseWriter, r *http.Request, id int64) {
	bodega, err := h.Service.ObtenerBodega(r.Context(), id)
	if err != nil {
		h.responderError(w, r, err)
		return
	}
	escribirJSON(w, http.StatusOK, bodega)
}

// crear responde POST /api/bodegas.
// @Summary Cria uma nova bodega
// @Accept json
// @Produce json
// @Success 201 {object} map[string]string "status marker"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro de armazenamento"
// @Router /api/bodegas [post]
func (h *Handler) crear(w http.ResponseWriter, r *http.Request) {
	var bodega domain.Bodega
	if err := decodificarCuerpo(r, &bodega); err != nil {
		h.responderError(w, r, err)
		return
	}

	if _, err := h.Service.CrearBodega(r.Context(), bodega); err != nil {
		h.responderError(w, r, err)
		return
	}

	// Contrato de wire original: marcador de status, não a entidade.
	escribirJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// actualizar responde PUT /api/bodegas/{id}.
// @Summary Atualiza uma bodega
// @Accept json
// @Produce json
// @Success 200 {object} domain.Bodega "Bodega atualizada"
// @Failure 404 {string} string "Nenhuma linha correspondeu ao id"
// @Router /api/bodegas/{id} [put]
func (h *Handler) actualizar(w http.ResponseWriter, r *http.Request, id int64) {
	var bodega domain.Bodega
	if err := decodificarCuerpo(r, &bodega); err != nil {
		h.responderError(w, r, err)
		return
	}
	bodega.ID = id // O id da URL prevalece sobre o do corpo

	actualizada, err := h.Service.ActualizarBodega(r.Context(), bodega)
	if err != nil {
		h.responderError(w, r, err)
		return
	}
	escribirJSON(w, http.StatusOK, actualizada)
}

// eliminar responde DELETE /api/bodegas/{id}.
// @Summary Elimina uma bodega
// @Success 204 "Nenhum conteúdo"
// @Failure 404 {string} string "Nenhuma linha correspondeu ao id"
// @Router /api/bodegas/{id} [delete]
func (h *Handler) eliminar(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.Service.EliminarBodega(r.Context(), id); err != nil {
		h.responderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// responderError traduz o erro tipado para o contrato de wire: 400 com
// codigo/detalle, 404 com corpo em texto plano, 500 com o diagnóstico do
// driver preservado literalmente.
func (h *Handler) responderError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *apperror.NotFoundError
	if errors.As(err, &notFound) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("No encontrado"))
		return
	}

	var validation *apperror.ValidationError
	if errors.As(err, &validation) {
		escribirJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   validation.Msg,
			Detalle: validation.Detalle,
		})
		return
	}

	var storage *apperror.StorageError
	if errors.As(err, &storage) {
		h.Logger.Error("Erro de armazenamento na requisição.", err)
		escribirJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:    "DB",
			SQLState: storage.SQLState,
			Message:  storage.DriverMessage(),
		})
		return
	}

	h.Logger.Error("Erro inesperado na requisição.", err)
	status, _, mensaje := apperror.MapToHTTPStatus(err)
	escribirJSON(w, status, domain.ErrorResponse{
		Error:   "server",
		Message: mensaje,
	})
}

// decodificarCuerpo lê o corpo JSON com correspondência de campos
// insensível a maiúsculas (comportamento do encoding/json).
func decodificarCuerpo(r *http.Request, destino interface{}) error {
	if r.Body == nil {
		return apperror.NewValidationError("Body vacío")
	}
	if err := json.NewDecoder(r.Body).Decode(destino); err != nil {
		if err == io.EOF {
			return apperror.NewValidationError("Body vacío")
		}
		return apperror.NewJSONError(err)
	}
	return nil
}

func escribirJSON(w http.ResponseWriter, status int, cuerpo interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(cuerpo)
}
