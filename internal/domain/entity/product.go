package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un ítem del catálogo. El catálogo es dueño del stock actual;
// el ledger solo guarda la historia.
type Product struct {
	ID        string
	SKU       string // código único
	Name      string
	Category  string // Parts, Tools, Vehicles...
	Price     decimal.Decimal
	Stock     int
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot proyecta los campos que consumen el motor de alertas y la analítica.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{ID: p.ID, Name: p.Name, Stock: p.Stock}
}

// ProductSnapshot vista mínima de un producto del catálogo.
type ProductSnapshot struct {
	ID    string
	Name  string
	Stock int
}

// Snapshots proyecta una lista de productos.
func Snapshots(products []*Product) []ProductSnapshot {
	out := make([]ProductSnapshot, 0, len(products))
	for _, p := range products {
		out = append(out, p.Snapshot())
	}
	return out
}
