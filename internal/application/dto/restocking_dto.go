package dto

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/restocking"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// SetThresholdRequest cuerpo de PUT /api/thresholds/:productId.
type SetThresholdRequest struct {
	Value int `json:"value"`
}

// ThresholdResponse umbral efectivo de un producto. Custom=false indica que se usa el global.
type ThresholdResponse struct {
	ProductID string `json:"product_id"`
	Value     int    `json:"value"`
	Custom    bool   `json:"custom"`
}

// AlertResponse salida de una alerta de reposición.
type AlertResponse struct {
	ID           string     `json:"id"`
	ProductID    string     `json:"product_id"`
	ProductName  string     `json:"product_name"`
	CurrentStock int        `json:"current_stock"`
	Threshold    int        `json:"threshold"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// FromAlert mapea la entidad.
func FromAlert(a entity.RestockingAlert) AlertResponse {
	return AlertResponse{
		ID:           a.ID,
		ProductID:    a.ProductID,
		ProductName:  a.ProductName,
		CurrentStock: a.CurrentStock,
		Threshold:    a.Threshold,
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt,
		ResolvedAt:   a.ResolvedAt,
	}
}

// FromAlerts mapea una lista; nunca devuelve nil.
func FromAlerts(list []entity.RestockingAlert) []AlertResponse {
	out := make([]AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, FromAlert(a))
	}
	return out
}

// ReconcileFailureDTO producto que no pudo procesarse.
type ReconcileFailureDTO struct {
	ProductID string `json:"product_id"`
	Error     string `json:"error"`
}

// ReconcileResponse respuesta de POST /api/alerts/reconcile.
type ReconcileResponse struct {
	Active   []AlertResponse       `json:"active"`
	Created  []AlertResponse       `json:"created"`
	Resolved []AlertResponse       `json:"resolved,omitempty"`
	Failures []ReconcileFailureDTO `json:"failures"`
}

// FromReconcileResult mapea el resultado de una reconciliación.
func FromReconcileResult(r *restocking.ReconcileResult) ReconcileResponse {
	failures := make([]ReconcileFailureDTO, 0, len(r.Failures))
	for _, f := range r.Failures {
		failures = append(failures, ReconcileFailureDTO{ProductID: f.ProductID, Error: f.Err.Error()})
	}
	return ReconcileResponse{
		Active:   FromAlerts(r.Active),
		Created:  FromAlerts(r.Created),
		Failures: failures,
	}
}
