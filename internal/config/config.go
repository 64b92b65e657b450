package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Driver identifica a implementação do record store.
const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
)

// Config agrega todas as configurações da aplicação.
// É construída uma única vez no main e passada explicitamente para quem precisa.
type Config struct {
	AppPort  string
	GinMode  string
	LogLevel string

	// Gate de admin (comparação local, não autoritativa).
	AdminPassword     string
	AdminPasswordHash string

	StoreDriver  string
	StoreTable   string
	StoreTimeout time.Duration

	// Supabase / PostgREST
	SupabaseURL      string
	SupabaseKey      string
	SupabaseEmail    string
	SupabasePassword string

	// Postgres direto (STORE_DRIVER=postgres)
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBAutoMigrate bool

	NoticeTTL time.Duration
	PageIdle  time.Duration
}

// DefaultPageIdle é o prazo de inatividade de uma página quando PageIdle não é positivo.
const DefaultPageIdle = 30 * time.Minute

// LoadEnv tenta carregar variáveis de ambiente de um arquivo .env (modo dev).
func LoadEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

// New cria uma nova instância de Config baseada em variáveis de ambiente.
func New() *Config {
	return &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "release"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", DriverREST)),
		StoreTable:        getEnv("STORE_TABLE", "myusers"),
		StoreTimeout:      time.Duration(getEnvPositiveInt("STORE_TIMEOUT_SECONDS", 15)) * time.Second,
		SupabaseURL:       strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseKey:       os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseEmail:     os.Getenv("SUPABASE_EMAIL"),
		SupabasePassword:  os.Getenv("SUPABASE_PASSWORD"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "postgres"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		DBAutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", false),
		NoticeTTL:         time.Duration(getEnvPositiveInt("NOTICE_SECONDS", 3)) * time.Second,
		PageIdle:          time.Duration(getEnvPositiveInt("PAGE_IDLE_MINUTES", 30)) * time.Minute,
	}
}

// Warnings lista configurações ausentes. A aplicação sobe mesmo assim:
// sem endpoint/chave todas as chamadas ao store falham, sem senha o gate fica fechado.
func (c *Config) Warnings() []string {
	var out []string
	switch c.StoreDriver {
	case DriverREST:
		if c.SupabaseURL == "" {
			out = append(out, "SUPABASE_URL não definido: chamadas ao store vão falhar")
		}
		if c.SupabaseKey == "" {
			out = append(out, "SUPABASE_ANON_KEY não definido: chamadas ao store vão falhar")
		}
		if (c.SupabaseEmail == "") != (c.SupabasePassword == "") {
			out = append(out, "SUPABASE_EMAIL e SUPABASE_PASSWORD devem ser definidos juntos: login ignorado")
		}
	case DriverPostgres:
	default:
		out = append(out, fmt.Sprintf("STORE_DRIVER %q desconhecido", c.StoreDriver))
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		out = append(out, "ADMIN_PASSWORD/ADMIN_PASSWORD_HASH não definidos: modo admin indisponível")
	}
	return out
}

// SignInEnabled indica se o client REST deve autenticar com email/senha fixos.
func (c *Config) SignInEnabled() bool {
	return c.SupabaseEmail != "" && c.SupabasePassword != ""
}

// PostgresDSN monta o DSN usado pelo driver postgres do gorm.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var val int
		_, err := fmt.Sscanf(v, "%d", &val)
		if err == nil {
			return val
		}
	}
	return def
}

// getEnvPositiveInt é como getEnvInt, mas zero ou negativo volta ao padrão.
func getEnvPositiveInt(key string, def int) int {
	if v := getEnvInt(key, def); v > 0 {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return def
}
