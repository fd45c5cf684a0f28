package entity

import "time"

// AlertStatus estado de una alerta de reposición.
type AlertStatus string

// Estados posibles. resolved es terminal para la instancia.
const (
	AlertStatusActive   AlertStatus = "active"
	AlertStatusResolved AlertStatus = "resolved"
)

// RestockingAlert alerta de stock bajo. ProductName, CurrentStock y Threshold se
// copian al crearla y no se actualizan después.
type RestockingAlert struct {
	ID           string
	ProductID    string
	ProductName  string
	CurrentStock int
	Threshold    int
	CreatedAt    time.Time
	Status       AlertStatus
	ResolvedAt   *time.Time
}

// Active indica si la alerta sigue abierta.
func (a *RestockingAlert) Active() bool { return a.Status == AlertStatusActive }
