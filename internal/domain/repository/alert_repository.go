package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AlertRepository puerto de alertas de reposición.
type AlertRepository interface {
	// CreateActive inserta la alerta solo si no existe otra activa para el producto.
	// Devuelve la alerta activa vigente y created=true si fue esta llamada la que la creó.
	// La garantía la da el almacenamiento (índice único parcial o equivalente), no un chequeo previo.
	CreateActive(ctx context.Context, alert entity.RestockingAlert) (stored *entity.RestockingAlert, created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.RestockingAlert, error)
	GetActiveByProduct(ctx context.Context, productID string) (*entity.RestockingAlert, error)
	ListActive(ctx context.Context) ([]entity.RestockingAlert, error)
	// Resolve pasa la alerta de active a resolved. Devuelve nil, nil si la alerta no estaba activa.
	Resolve(ctx context.Context, id string, at time.Time) (*entity.RestockingAlert, error)
}
