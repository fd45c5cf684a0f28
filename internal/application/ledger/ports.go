package ledger

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Catálogo y ledger se actualizan juntos o no se actualizan.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		events repository.StockEventRepository,
		products repository.ProductRepository,
	) error) error
}
