package entity

import "time"

// Threshold umbral de stock bajo específico de un producto (alerta cuando stock < Value).
// Máximo una fila por producto.
type Threshold struct {
	ID        string
	ProductID string
	Value     int
	UpdatedAt time.Time
}
