package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config armazena todas as configurações dos serviços de Inventário.
// Os campos cobrem os três binários (bodegas, productos e gateway); cada um
// lê apenas o que precisa.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Banco de Dados (PostgreSQL) — compartilhado pelos serviços de registro
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis) — usado pelo rate limiting
	RedisAddr string

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Regras de negócio dos productos
	UmbralStockBajo int // estoque abaixo deste valor dispara Inventario.Producto.StockBajo

	// Política de eliminação de bodegas (NULLIFY | DEFAULT)
	BodegaDeletePolicy string
	BodegaDefaultID    int64 // bodega de respaldo quando a política é DEFAULT

	// Gateway — URLs base dos serviços de registro e chaves de função
	APIBodegasBase   string
	APIProductosBase string
	APIBodegasKey    string
	APIProductosKey  string
	GatewayTimeout   time.Duration
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// As credenciais do barramento de eventos NÃO são lidas aqui: o pacote
// internal/events as resolve no primeiro Publish (contrato de inicialização
// tardia).
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Banco de Dados (PostgreSQL)
		// mustGetEnv garante que o serviço não inicie sem credenciais de DB.
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		// 3. Cache (Redis)
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		// 4. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,

		// 5. Regras de negócio
		UmbralStockBajo:    getIntEnv("UMBRAL_STOCK_BAJO", 10),
		BodegaDeletePolicy: getEnv("BODEGA_DELETE_POLICY", "NULLIFY"),
		BodegaDefaultID:    getInt64Env("BODEGA_DEFAULT_ID", 0),

		// 6. Gateway
		APIBodegasBase:   getEnv("API_BODEGAS_BASE", "http://localhost:8081"),
		APIProductosBase: getEnv("API_PRODUCTOS_BASE", "http://localhost:8082"),
		APIBodegasKey:    getEnv("API_BODEGAS_KEY", ""),
		APIProductosKey:  getEnv("API_PRODUCTOS_KEY", ""),
		GatewayTimeout:   getDurationEnv("GATEWAY_TIMEOUT_SEC", 20) * time.Second,
	}

	return cfg
}

// LoadGatewayConfig carrega apenas o necessário para o gateway, que não
// acessa banco de dados nem Redis diretamente.
func LoadGatewayConfig() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		APIBodegasBase:   mustGetEnv("API_BODEGAS_BASE"),
		APIProductosBase: mustGetEnv("API_PRODUCTOS_BASE"),
		APIBodegasKey:    getEnv("API_BODEGAS_KEY", ""),
		APIProductosKey:  getEnv("API_PRODUCTOS_KEY", ""),
		GatewayTimeout:   getDurationEnv("GATEWAY_TIMEOUT_SEC", 20) * time.Second,
	}
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return time.Duration(defaultValue)
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return time.Duration(defaultValue)
	}
	return time.Duration(value)
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getInt64Env lê uma variável de ambiente numérica e retorna-a como int64.
func getInt64Env(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
