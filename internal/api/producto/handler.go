package producto

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

// ProductoService define o contrato que o Handler espera da camada de Serviço.
type ProductoService interface {
	CrearProducto(ctx domain.Context, producto domain.Producto) (domain.Producto, error)
	ObtenerProducto(ctx domain.Context, id int64) (domain.Producto, error)
	ListarProductos(ctx domain.Context) ([]domain.Producto, error)
	ActualizarProducto(ctx domain.Context, producto domain.Producto) (domain.Producto, error)
	EliminarProducto(ctx domain.Context, id int64) error
}

// Handler agrupa todos os métodos de Handler de productos.
type Handler struct {
	Service ProductoService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProductoService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// ProductosHandler lida com a rota de coleção /api/productos (GET e POST).
func (h *Handler) ProductosHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listar(w, r)
	case http.MethodPost:
		h.crear(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// ProductoPorIDHandler lida com a rota /api/productos/{id} (GET, PUT e DELETE).
func (h *Handler) ProductoPorIDHandler(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/productos/")
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

// listar responde GET /api/productos.
// @Summary Lista todos os productos
// @Produce json
// @Success 200 {array} domain.Producto "Lista de productos ordenada por id"
// @Failure 500 {object} domain.ErrorResponse "Erro de armazenamento"
// @Router /api/productos [get]
func (h *Handler) listar(w http.ResponseWriter, r *http.Request) {
	productos, err := h.Service.ListarProductos(r.Context())
	if err != nil {
		h.responderError(w, r, err)
		return
	}
	if productos == nil {
		productos = []domain.Producto{}
	}
	escribirJSON(w, http.StatusOK, productos)
}

// obtener responde GET /api/productos/{id}.
// @Summary Obtém um producto por ID
// @Produce json
// @Success 200 {object} domain.Producto "Producto encontrado"
// @Failure 404 {string} string "No encontrado"
// @Router /api/productos/{id} [get]
func (h *Handler) obtener(w http.ResponseWriter, r *http.Request, id int64) {
	producto, err := h.Service.ObtenerProducto(r.Context(), id)
	if err != nil {
		h.responderError(w, r, err)
		return
	}
	escribirJSON(w, http.StatusOK, producto)
}

// crear responde POST /api/productos. stock e precio omitidos assumem zero;
// a resposta é a entidade criada com o id resolvido (é o que o gateway ecoa
// na mutação crearProducto).
// @Summary Cria um novo producto
// @Accept json
// @Produce json
// @Success 201 {object} domain.Producto "Producto criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro de armazenamento"
// @Router /api/productos [post]
func (h *Handler) crear(w http.ResponseWriter, r *http.Request) {
	var producto domain.Producto
	if err := decodificarCuerpo(r, &producto); err != nil {
		h.responderError(w, r, err)
		return
	}

	creado, err := h.Service.CrearProducto(r.Context(), producto)
	if err != nil {
		h.responderError(w, r, err)
		return
	}
	escribirJSON(w, http.StatusCreated, creado)
}

// actualizar responde PUT /api/productos/{id}.
// @Summary Atualiza um producto
// @Accept json
// @Produce json
// @Success 200 {object} domain.Producto "Producto atualizado"
// @Failure 404 {string} string "Nenhuma linha correspondeu ao id"
// @Router /api/productos/{id} [put]
func (h *Handler) actualizar(w http.ResponseWriter, r *http.Request, id int64) {
	var producto domain.Producto
	if err := decodificarCuerpo(r, &producto); err != nil {
		h.responderError(w, r, err)
		return
	}
	producto.ID = id // O id da URL prevalece sobre o do corpo

	actualizado, err := h.Service.ActualizarProducto(r.Context(), producto)
	if err != nil {
		h.responderError(w, r, err)
		return
	}
	escribirJSON(w, http.StatusOK, actualizado)
}

// eliminar responde DELETE /api/productos/{id}.
// @Summary Elimina um producto
// @Success 204 "Nenhum conteúdo"
// @Failure 404 {string} string "Nenhuma linha correspondeu ao id"
// @Router /api/productos/{id} [delete]
func (h *Handler) eliminar(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.Service.EliminarProducto(r.Context(), id); err != nil {
		h.responderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// responderError traduz o erro tipado para o contrato de wire, preservando o
// diagnóstico do driver nos erros de armazenamento.
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
