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
	"inventario/internal/api/bodega"
	"inventario/internal/api/router"
	"inventario/internal/events"
	"inventario/internal/pkg/cache"
	"inventario/internal/pkg/database"
	"inventario/internal/pkg/logger"
	"inventario/internal/repository/bodegarepo"
	"inventario/internal/service/bodegaservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço de Bodegas...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis) para o rate limiting
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)

	// C. Emissor de eventos: handle barato agora, writer construído no
	// primeiro Publish (configuração ausente só falha no primeiro uso).
	emisor := events.NewEmisor(appLog)
	defer emisor.Close()

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Repository -> Service -> Handler)
	repo := bodegarepo.NewBodegaRepository(db, cfg.DBTimeout, appLog)
	svc := bodegaservice.NewService(repo, emisor, cfg.BodegaDeletePolicy, cfg.BodegaDefaultID, appLog)
	handler := bodega.NewHandler(svc, appLog)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewBodegasRouter(handler, cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor de Bodegas ouvindo na porta", map[string]interface{}{"port": cfg.Port})
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

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
