package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"inventario/config"
	"inventario/internal/gateway"
	"inventario/internal/pkg/logger"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando gateway de agregação...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadGatewayConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", nil)

	// 2. Clientes downstream para os serviços de registro
	bodegasClient := gateway.NewRecordClient(cfg.APIBodegasBase, cfg.APIBodegasKey, cfg.GatewayTimeout)
	productosClient := gateway.NewRecordClient(cfg.APIProductosBase, cfg.APIProductosKey, cfg.GatewayTimeout)

	// 3. Schema GraphQL sobre o Resolver
	resolver := gateway.NewResolver(bodegasClient, productosClient, appLog)
	schema, err := gateway.NewSchema(resolver)
	if err != nil {
		appLog.Fatal("Falha ao montar o schema GraphQL.", err)
	}

	handler := gateway.NewHandler(schema, appLog)
	r := gateway.NewRouter(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // as resoluções aninhadas somam chamadas downstream
		IdleTimeout:  60 * time.Second,
	}

	// 4. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Gateway ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Gateway encerrado com sucesso.", nil)
}
