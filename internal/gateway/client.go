package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperror "inventario/internal/errors"
)

// RecordClient é o cliente HTTP para um serviço de registro (bodegas ou
// productos). Toda chamada carrega um timeout limitado e propaga falhas
// downstream como UpstreamError com status e corpo; nenhuma chamada é
// repetida automaticamente.
type RecordClient struct {
	base string
	key  string // chave de função opcional, enviada em x-functions-key
	http *http.Client
}

// NewRecordClient cria um cliente para o serviço de registro em base.
func NewRecordClient(base, key string, timeout time.Duration) *RecordClient {
	return &RecordClient{
		base: base,
		key:  key,
		http: &http.Client{Timeout: timeout},
	}
}

// joinURL concatena a base com o path normalizando as barras.
func joinURL(base, path string) string {
	b := strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return b + path
}

// GetList faz GET e decodifica uma lista JSON de objetos.
func (c *RecordClient) GetList(ctx context.Context, path string) ([]map[string]interface{}, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out []map[string]interface{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("resposta downstream não é uma lista JSON: %w", err)
	}
	return out, nil
}

// GetObject faz GET e decodifica um objeto JSON.
func (c *RecordClient) GetObject(ctx context.Context, path string) (map[string]interface{}, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out map[string]interface{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("resposta downstream não é um objeto JSON: %w", err)
	}
	return out, nil
}

// PostObject faz POST com corpo JSON e decodifica a resposta como objeto.
// Retorna nil sem erro quando o downstream respondeu sucesso com corpo vazio.
func (c *RecordClient) PostObject(ctx context.Context, path string, payload interface{}) (map[string]interface{}, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("payload não serializável: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, path, encoded)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var out map[string]interface{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("resposta downstream não é um objeto JSON: %w", err)
	}
	return out, nil
}

// do executa a chamada e devolve o corpo quando o status é 2xx; qualquer
// outro status vira UpstreamError com status e corpo preservados.
func (c *RecordClient) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	url := joinURL(c.base, path)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.key != "" {
		req.Header.Set("x-functions-key", c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeout ou falha de rede: sem status downstream para reportar.
		return nil, apperror.NewUpstreamError(method, url, 0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewUpstreamError(method, url, resp.StatusCode, err.Error())
	}

	if resp.StatusCode/100 != 2 {
		return nil, apperror.NewUpstreamError(method, url, resp.StatusCode, string(body))
	}
	return body, nil
}
