package ports

import (
	"context"
	"database/sql"
)

// UnitOfWork delimita transações. Repositórios chamados com o ctx recebido por fn
// participam da transação; chamadas aninhadas reaproveitam a externa.
type UnitOfWork interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error, opts ...*sql.TxOptions) error
}
