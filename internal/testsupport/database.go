// Package testsupport reúne banco em memória e dublês de colaboradores externos
// usados pelos testes de serviços e handlers.
package testsupport

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rafabene/scribe-backend/internal/infrastructure/persistence/postgres"
)

// NewSQLiteDB abre um SQLite em memória isolado por chamada, com o schema migrado.
// Uma única conexão serializa as transações como o Postgres faria com locks de linha.
func NewSQLiteDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())

	db, err := postgres.Open(sqlite.Open(dsn), "silent")
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := postgres.Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Close libera a conexão do banco de teste
func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
