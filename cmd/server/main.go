package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/myusers-admin/internal/api"
	"github.com/example/myusers-admin/internal/config"
	"github.com/example/myusers-admin/internal/console"
	"github.com/example/myusers-admin/internal/db"
	"github.com/example/myusers-admin/internal/logging"
	"github.com/example/myusers-admin/internal/store"
)

func main() {
	// Carrega variáveis de ambiente (.env em dev, env vars em prod)
	if err := config.LoadEnv(); err != nil {
		log.Printf("warn: erro ao carregar .env: %v", err)
	}

	// Inicializa config
	cfg := config.New()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("erro ao criar logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Configuração incompleta não impede a subida: o store falha em cada chamada
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	// Monta o record store
	s, closeStore := newStore(cfg, logger, db.OpenPostgres)
	defer closeStore()
	s = store.Instrument(s, cfg.StoreDriver, logger)

	gin.SetMode(cfg.GinMode)
	pages := console.NewRegistry(s, cfg, logger)
	r := api.NewRouter(pages, s, logger)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}

	addr := ":" + port
	logger.Info("servidor iniciado", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Error("erro ao subir servidor", zap.Error(err))
		os.Exit(1)
	}
}

type openFunc func(*config.Config, *zap.Logger) (*gorm.DB, error)

// newStore escolhe o driver do store. Falha de conexão ou de migração não
// derruba a subida: o erro vira aviso e as chamadas ao store falham.
func newStore(cfg *config.Config, logger *zap.Logger, open openFunc) (store.Store, func()) {
	if cfg.StoreDriver != config.DriverPostgres {
		logger.Info("usando store REST",
			zap.String("url", cfg.SupabaseURL),
			zap.Int("key_length", len(cfg.SupabaseKey)),
			zap.Bool("sign_in", cfg.SignInEnabled()),
		)
		return store.NewREST(cfg, nil), func() {}
	}

	gdb, err := open(cfg, logger)
	if err != nil {
		logger.Warn("erro ao conectar no banco: chamadas ao store vão falhar", zap.Error(err))
		return store.Unavailable(err), func() {}
	}

	if cfg.DBAutoMigrate {
		if err := db.AutoMigrate(gdb); err != nil {
			logger.Warn("erro ao migrar modelos", zap.Error(err))
		}
	}
	return store.NewPostgres(gdb, cfg.StoreTable), func() { db.Close(gdb) }
}
