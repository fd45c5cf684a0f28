package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/analytics"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestFromStatistics_RedondeaYEtiquetaNA(t *testing.T) {
	r := dto.FromStatistics(analytics.Statistics{AverageStockLevel: 7.4999, StockTurnover: 10.0 / 7.5})
	assert.Equal(t, "7.50", r.AverageStockLevel.StringFixed(2))
	assert.Equal(t, "1.33", r.StockTurnover.String())
	assert.Equal(t, dto.NotAvailable, r.RestockFrequencyLabel)

	r = dto.FromStatistics(analytics.Statistics{RestockCount: 3, RestockFrequency: 5})
	assert.Equal(t, "5.00 días", r.RestockFrequencyLabel)

	r = dto.FromStatistics(analytics.Statistics{RestockCount: 2, RestockFrequency: 0})
	assert.Equal(t, "0.00 días", r.RestockFrequencyLabel, "reposiciones simultáneas")
}

func TestStockMutationRequest_ToMutation(t *testing.T) {
	m := dto.StockMutationRequest{Kind: "catalog_edit", NewStock: 7}.ToMutation("p1")
	assert.Equal(t, entity.CatalogEdit{ProductID: "p1", NewStock: 7}, m)

	m = dto.StockMutationRequest{Kind: "sale", Quantity: 2, Notes: "mostrador"}.ToMutation("p1")
	assert.Equal(t, entity.DirectAdjustment{ProductID: "p1", Kind: entity.EventTypeSale, Quantity: 2, Notes: "mostrador"}, m)
}
