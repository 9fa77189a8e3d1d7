package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

// AppError é a interface central para todos os erros customizados do Inventário.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION", "NOT_FOUND", "STORAGE")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg     string
	Detalle string // detalhe legível, e.g. a mensagem do parser JSON
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NewJSONError cria um erro de validação para corpos JSON malformados,
// preservando a mensagem original do decoder no campo detalle.
func NewJSONError(err error) AppError {
	return &ValidationError{Msg: "JSON inválido", Detalle: err.Error()}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// StorageError representa qualquer falha durante uma operação de armazenamento,
// incluindo dentro de uma transação já revertida. O SQLState e a mensagem do
// driver são preservados literalmente para diagnóstico (operabilidade).
type StorageError struct {
	Msg      string
	SQLState string
	Err      error // Erro original do driver
}

func (e *StorageError) Error() string    { return fmt.Sprintf("Erro de Armazenamento: %s", e.Msg) }
func (e *StorageError) Category() string { return "STORAGE_ERROR" }
func (e *StorageError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *StorageError) Unwrap() error    { return e.Err }

// DriverMessage devolve a mensagem do driver subjacente, quando houver.
func (e *StorageError) DriverMessage() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

// NewStorageError encapsula um erro vindo do banco, extraindo o SQLSTATE
// quando o erro é do driver pq.
func NewStorageError(msg string, err error) AppError {
	se := &StorageError{Msg: msg, Err: err}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		se.SQLState = string(pqErr.Code)
	}
	return se
}

// UpstreamError representa uma chamada do gateway a um serviço de registro que
// não retornou sucesso. Inclui o status e o corpo da resposta para diagnóstico.
type UpstreamError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s -> %d %s", e.Method, e.URL, e.Status, e.Body)
}
func (e *UpstreamError) Category() string { return "UPSTREAM_FAILURE" }
func (e *UpstreamError) HTTPStatus() int  { return http.StatusBadGateway } // 502
func (e *UpstreamError) Unwrap() error    { return nil }

// NewUpstreamError cria um erro de chamada downstream sem sucesso.
func NewUpstreamError(method, url string, status int, body string) AppError {
	return &UpstreamError{Method: method, URL: url, Status: status, Body: body}
}

// ConfigError representa configuração obrigatória ausente (e.g., credenciais do
// barramento de eventos). É fatal na primeira utilização, não recuperável.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string    { return fmt.Sprintf("Erro de Configuração: %s", e.Msg) }
func (e *ConfigError) Category() string { return "CONFIGURATION_ERROR" }
func (e *ConfigError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *ConfigError) Unwrap() error    { return nil }

// NewConfigError cria um erro de configuração ausente.
func NewConfigError(msg string) AppError {
	return &ConfigError{Msg: msg}
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if errors.As(err, &appErr) {
		// O erro é tipado (ValidationError, NotFoundError, etc.)
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado (e.g., erro simples de pacote Go que não implementa AppError)
	// Tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}
