// Package ledger contiene los casos de uso del ledger de stock: registrar transiciones,
// leer la historia de un producto y aplicar mutaciones de stock sobre catálogo y ledger a la vez.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/metrics"
)

// UseCase registra y consulta eventos de stock.
type UseCase struct {
	events   repository.StockEventRepository
	txRunner TxRunner
	log      *logger.Logger
	metrics  *metrics.StockMetrics
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	events repository.StockEventRepository,
	txRunner TxRunner,
	log *logger.Logger,
	m *metrics.StockMetrics,
) *UseCase {
	return &UseCase{
		events:   events,
		txRunner: txRunner,
		log:      log.Component("ledger"),
		metrics:  m,
		now:      time.Now,
	}
}

// RecordChangeInput transición a registrar. EventType vacío equivale a update.
type RecordChangeInput struct {
	ProductID     string
	PreviousStock int
	NewStock      int
	EventType     entity.EventType
	ActorID       string
	Notes         string
}

// RecordChange persiste un evento con ChangeAmount = NewStock - PreviousStock y la hora actual.
// No valida NewStock >= 0 ni toca el catálogo: el llamador actualiza ambos
// (o usa ApplyStockMutation). No reintenta; un reintento ciego podría duplicar el registro.
func (uc *UseCase) RecordChange(ctx context.Context, in RecordChangeInput) (*entity.StockEvent, error) {
	if in.ProductID == "" {
		return nil, domain.Validation("product_id requerido")
	}
	if in.EventType == "" {
		in.EventType = entity.EventTypeUpdate
	}
	if !in.EventType.Valid() {
		return nil, domain.Validation(fmt.Sprintf("tipo de evento desconocido %q", in.EventType))
	}
	event := entity.NewStockEvent(in.ProductID, in.PreviousStock, in.NewStock, in.EventType, uc.now(), in.ActorID, in.Notes)
	stored, err := uc.events.Append(ctx, event)
	if err != nil {
		return nil, domain.AsPersistence("registrar evento de stock", err)
	}
	uc.metrics.EventsRecorded.WithLabelValues(string(stored.EventType)).Inc()
	return stored, nil
}

// History devuelve la historia del producto, más reciente primero. Sin eventos devuelve lista vacía.
func (uc *UseCase) History(ctx context.Context, productID string) ([]entity.StockEvent, error) {
	if productID == "" {
		return nil, domain.Validation("product_id requerido")
	}
	events, err := uc.events.ListByProduct(ctx, productID)
	if err != nil {
		return nil, domain.AsPersistence("leer historia", err)
	}
	if events == nil {
		events = []entity.StockEvent{}
	}
	return events, nil
}

// Recent devuelve los últimos eventos de todo el catálogo.
func (uc *UseCase) Recent(ctx context.Context, limit int) ([]entity.StockEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	events, err := uc.events.ListRecent(ctx, limit)
	if err != nil {
		return nil, domain.AsPersistence("leer eventos recientes", err)
	}
	return events, nil
}

// ApplyStockMutation aplica la mutación sobre el catálogo y registra el evento en la misma
// transacción. Bloquea la fila del producto (SELECT FOR UPDATE) durante el cálculo.
// Una CatalogEdit que no cambia el stock no registra nada y devuelve (nil, nil).
func (uc *UseCase) ApplyStockMutation(ctx context.Context, mutation entity.StockMutation, actorID string) (*entity.StockEvent, error) {
	if mutation == nil || mutation.TargetProductID() == "" {
		return nil, domain.Validation("product_id requerido")
	}
	if err := validateMutation(mutation); err != nil {
		uc.metrics.MutationsRejected.WithLabelValues("validation").Inc()
		return nil, err
	}

	var stored *entity.StockEvent
	err := uc.txRunner.Run(ctx, func(events repository.StockEventRepository, products repository.ProductRepository) error {
		product, err := products.GetForUpdate(ctx, mutation.TargetProductID())
		if err != nil {
			return domain.AsPersistence("bloquear producto", err)
		}
		if product == nil {
			return domain.NotFound("producto", mutation.TargetProductID())
		}

		newStock, typ, notes := resolveMutation(mutation, product.Stock)
		if newStock < 0 {
			if typ == entity.EventTypeSale {
				return fmt.Errorf("%w: disponible %d", domain.ErrInsufficientStock, product.Stock)
			}
			return domain.Validation("el stock no puede quedar negativo")
		}
		if newStock == product.Stock && typ == entity.EventTypeUpdate {
			return nil
		}

		if err := products.UpdateStock(ctx, product.ID, newStock); err != nil {
			return domain.AsPersistence("actualizar stock", err)
		}
		event := entity.NewStockEvent(product.ID, product.Stock, newStock, typ, uc.now(), actorID, notes)
		stored, err = events.Append(ctx, event)
		if err != nil {
			return domain.AsPersistence("registrar evento de stock", err)
		}
		return nil
	})
	if err != nil {
		uc.metrics.MutationsRejected.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}

	uc.metrics.EventsRecorded.WithLabelValues(string(stored.EventType)).Inc()
	uc.log.Info().
		Str("product_id", stored.ProductID).
		Str("event_type", string(stored.EventType)).
		Int("previous_stock", stored.PreviousStock).
		Int("new_stock", stored.NewStock).
		Msg("mutación de stock aplicada")
	return stored, nil
}

func validateMutation(mutation entity.StockMutation) error {
	switch m := mutation.(type) {
	case entity.DirectAdjustment:
		switch m.Kind {
		case entity.EventTypeRestock, entity.EventTypeSale:
			if m.Quantity <= 0 {
				return domain.Validation("la cantidad debe ser positiva")
			}
		case entity.EventTypeAdjustment:
			if m.Quantity == 0 {
				return domain.Validation("el ajuste no puede ser cero")
			}
		default:
			return domain.Validation(fmt.Sprintf("tipo de movimiento inválido %q", m.Kind))
		}
	case entity.CatalogEdit:
		if m.NewStock < 0 {
			return domain.Validation("el stock no puede ser negativo")
		}
	default:
		return domain.Validation("mutación desconocida")
	}
	return nil
}

// resolveMutation calcula el nuevo stock, el tipo de evento y las notas.
func resolveMutation(mutation entity.StockMutation, current int) (int, entity.EventType, string) {
	switch m := mutation.(type) {
	case entity.DirectAdjustment:
		switch m.Kind {
		case entity.EventTypeRestock:
			return current + m.Quantity, m.Kind, m.Notes
		case entity.EventTypeSale:
			return current - m.Quantity, m.Kind, m.Notes
		default:
			return current + m.Quantity, m.Kind, m.Notes
		}
	case entity.CatalogEdit:
		return m.NewStock, entity.EventTypeUpdate, m.Notes
	}
	return current, entity.EventTypeUpdate, ""
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "persistence"
	}
}
