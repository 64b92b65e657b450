package db

import (
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/myusers-admin/internal/config"
	"github.com/example/myusers-admin/internal/models"
)

// OpenPostgres inicializa a conexão com PostgreSQL (STORE_DRIVER=postgres).
func OpenPostgres(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	log.Info("conectado ao PostgreSQL", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
	return gdb, nil
}

// AutoMigrate cria/ajusta a tabela de usuários.
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&models.User{})
}

// Close fecha a conexão com o banco (usado em testes / shutdown).
func Close(gdb *gorm.DB) {
	if gdb == nil {
		return
	}
	sqlDB, err := gdb.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}
