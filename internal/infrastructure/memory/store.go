// Package memory implementa los puertos de persistencia en memoria. Respeta los mismos
// contratos que el adaptador PostgreSQL (orden por secuencia, unicidad de umbral y de
// alerta activa) y se usa en pruebas y con STORE_DRIVER=memory.
package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu         sync.RWMutex
	products   map[string]entity.Product
	events     []entity.StockEvent
	seq        int64
	thresholds map[string]entity.Threshold // por product_id
	alerts     map[string]entity.RestockingAlert
	active     map[string]string // product_id -> alert id activa

	txMu sync.Mutex
	now  func() time.Time
}

// New construye un Store vacío.
func New() *Store {
	return &Store{
		products:   make(map[string]entity.Product),
		thresholds: make(map[string]entity.Threshold),
		alerts:     make(map[string]entity.RestockingAlert),
		active:     make(map[string]string),
		now:        time.Now,
	}
}

// PutProduct inserta o reemplaza un producto del catálogo.
func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	s.products[p.ID] = p
}

// Products devuelve el repositorio del catálogo.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Events devuelve el ledger.
func (s *Store) Events() *StockEventRepo { return &StockEventRepo{s: s} }

// Thresholds devuelve el repositorio de umbrales.
func (s *Store) Thresholds() *ThresholdRepo { return &ThresholdRepo{s: s} }

// Alerts devuelve el repositorio de alertas.
func (s *Store) Alerts() *AlertRepo { return &AlertRepo{s: s} }

// TxRunner devuelve el ejecutor de transacciones en memoria.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }
