package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"inventario/internal/pkg/logger"
)

// peticionGraphQL é o corpo esperado em POST /graphql.
type peticionGraphQL struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Handler expõe o schema do gateway sobre HTTP.
type Handler struct {
	schema graphql.Schema
	logger logger.Logger
}

// NewHandler cria o handler HTTP do gateway.
func NewHandler(schema graphql.Schema, log logger.Logger) *Handler {
	return &Handler{schema: schema, logger: log}
}

// GraphQLHandler lida com POST /graphql. Erros de resolução (incluindo
// UpstreamError das chamadas downstream) são reportados no array errors da
// resposta, nunca como status HTTP de falha.
func (h *Handler) GraphQLHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var peticion peticionGraphQL
	if err := json.NewDecoder(r.Body).Decode(&peticion); err != nil || peticion.Query == "" {
		escribirJSON(w, http.StatusBadRequest, map[string]string{
			"error": `Body JSON inválido. Esperado: { "query": "..." }`,
		})
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  peticion.Query,
		VariableValues: peticion.Variables,
		Context:        r.Context(),
	})

	if len(result.Errors) > 0 {
		h.logger.Warn("Execução GraphQL com erros.", map[string]interface{}{"errors": result.Errors})
	}

	escribirJSON(w, http.StatusOK, result)
}

// NewRouter configura o roteador HTTP do gateway.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/graphql", h.GraphQLHandler)

	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	return mux
}

func escribirJSON(w http.ResponseWriter, status int, cuerpo interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(cuerpo)
}
