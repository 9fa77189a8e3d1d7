package events

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	apperror "inventario/internal/errors"
	"inventario/internal/pkg/logger"
)

// Tipos dos eventos de domínio publicados no barramento.
const (
	TipoBodegaCreada        = "Inventario.Bodega.Creada"
	TipoBodegaActualizada   = "Inventario.Bodega.Actualizada"
	TipoBodegaEliminada     = "Inventario.Bodega.Eliminada"
	TipoProductoCreado      = "Inventario.Producto.Creado"
	TipoProductoActualizado = "Inventario.Producto.Actualizado"
	TipoProductoEliminado   = "Inventario.Producto.Eliminado"
	TipoProductoStockBajo   = "Inventario.Producto.StockBajo"
)

// Evento é o envelope publicado no barramento. O formato espelha o evento
// de grid que os consumidores já conhecem: id, eventType, subject, data,
// eventTime e dataVersion.
type Evento struct {
	ID          string                 `json:"id"`
	EventType   string                 `json:"eventType"`
	Subject     string                 `json:"subject"`
	Data        map[string]interface{} `json:"data"`
	EventTime   time.Time              `json:"eventTime"`
	DataVersion string                 `json:"dataVersion"`
}

// transporte abstrai o writer Kafka para permitir testes sem broker.
type transporte interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Emisor publica eventos de domínio no barramento de eventos.
//
// O handle é construído barato no startup e passado por injeção aos serviços;
// o writer Kafka subjacente só é construído na primeira publicação, exatamente
// uma vez mesmo sob concorrência (sync.Once). Configuração ausente é um erro
// fatal no primeiro uso, nunca no arranque do processo.
//
// O contrato de entrega é at-least-once e fire-and-forget: Publish retorna
// erro apenas quando a publicação não pôde sequer ser tentada (configuração
// ou serialização); falhas de transporte posteriores são registradas em log e
// nunca propagadas às mutações que as originaram.
type Emisor struct {
	logger logger.Logger

	once    sync.Once
	writer  transporte
	initErr error
}

// NewEmisor cria o handle do emissor. Nenhuma configuração é lida aqui.
func NewEmisor(log logger.Logger) *Emisor {
	return &Emisor{logger: log}
}

// init resolve a configuração do barramento e constrói o writer.
// Executado no máximo uma vez, protegido pelo sync.Once de Publish.
func (e *Emisor) init() {
	endpoint := os.Getenv("EVENT_BUS_BROKER")
	key := os.Getenv("EVENT_BUS_ACCESS_KEY")
	if endpoint == "" || key == "" {
		e.initErr = apperror.NewConfigError("Faltam EVENT_BUS_BROKER / EVENT_BUS_ACCESS_KEY")
		return
	}

	topic := os.Getenv("EVENT_BUS_TOPIC")
	if topic == "" {
		topic = "inventario-eventos"
	}

	// Superfície Kafka de barramento gerenciado: SASL PLAIN com a connection
	// string como credencial, sobre TLS.
	mechanism := plain.Mechanism{
		Username: "$ConnectionString",
		Password: key,
	}

	e.writer = &kafka.Writer{
		Addr:         kafka.TCP(endpoint),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		Transport: &kafka.Transport{
			SASL: mechanism,
			TLS:  &tls.Config{},
		},
	}

	e.logger.Info("Emissor de eventos inicializado.", map[string]interface{}{"endpoint": endpoint, "topic": topic})
}

// Publish serializa o payload (objeto vazio quando nil) e o entrega ao
// transporte. O envio acontece em uma goroutine própria: o chamador nunca
// espera pelo broker nem recebe confirmação de entrega.
func (e *Emisor) Publish(tipo string, sujeto string, datos map[string]interface{}) error {
	e.once.Do(e.init)
	if e.initErr != nil {
		return e.initErr
	}

	if datos == nil {
		datos = map[string]interface{}{}
	}

	ev := Evento{
		ID:          uuid.New().String(),
		EventType:   tipo,
		Subject:     sujeto,
		Data:        datos,
		EventTime:   time.Now().UTC(),
		DataVersion: "1.0",
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return apperror.NewValidationError("Payload de evento não serializável: " + err.Error())
	}

	msg := kafka.Message{
		Key:   []byte(sujeto),
		Value: value,
		Headers: []kafka.Header{
			{Key: "ce-type", Value: []byte(tipo)},
			{Key: "ce-id", Value: []byte(ev.ID)},
			{Key: "ce-time", Value: []byte(ev.EventTime.Format(time.RFC3339))},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: ev.EventTime,
	}

	writer := e.writer
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := writer.WriteMessages(ctx, msg); err != nil {
			// Entrega é best-effort: registramos e seguimos.
			e.logger.Error("Falha ao publicar evento no barramento.", err)
			return
		}
		e.logger.Debug("Evento publicado.", map[string]interface{}{"tipo": tipo, "sujeto": sujeto})
	}()

	return nil
}

// Close encerra o writer subjacente, se ele chegou a ser construído.
func (e *Emisor) Close() error {
	if w, ok := e.writer.(*kafka.Writer); ok {
		return w.Close()
	}
	return nil
}
