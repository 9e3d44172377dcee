package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/domain/ports"
)

// contextKey evita colisão com chaves de outros pacotes
type contextKey string

const txKey contextKey = "tx"

// UnitOfWork implementa ports.UnitOfWork
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork cria um novo UnitOfWork
func NewUnitOfWork(db *gorm.DB) ports.UnitOfWork {
	return &UnitOfWork{db: db}
}

// WithTransaction executa fn dentro de uma transação: commit se fn retornar nil,
// rollback em erro ou panic. Se ctx já carrega uma transação, fn participa dela.
func (uow *UnitOfWork) WithTransaction(ctx context.Context, fn func(context.Context) error, opts ...*sql.TxOptions) error {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}

	tx := uow.db.WithContext(ctx).Begin(opts...)
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	txCtx := context.WithValue(ctx, txKey, tx)

	if err := fn(txCtx); err != nil {
		tx.Rollback()
		return err
	}

	// Em SERIALIZABLE o Postgres pode recusar o commit (40001)
	return translateError(tx.Commit().Error, domainerrors.MsgConcurrentWrite)
}

// dbFromContext extrai a transação do contexto, ou usa a conexão padrão
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
