package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
)

// translateError converte erros do gorm para a taxonomia do domínio.
// Falha de serialização (transações SERIALIZABLE concorrentes) também é Conflict,
// para que o chamador possa reler e repetir.
func translateError(err error, conflictMessage string) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return domainerrors.Conflict(conflictMessage, err)
	}
	if isSerializationFailure(err) {
		return domainerrors.Conflict(domainerrors.MsgConcurrentWrite, err)
	}
	return domainerrors.Persistence(err)
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgSerializationFailure
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// sqlite sem tradução de erro
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
