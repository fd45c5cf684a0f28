package cli

import (
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func TestExecute_CierraServiciosSiElComandoFalla(t *testing.T) {
	cfg := &config.Config{
		Store:   config.StoreConfig{Driver: config.StoreDriverMemory},
		Alerts:  config.AlertsConfig{DefaultThreshold: 5, DashboardLowStock: 5},
		Reports: config.ReportsConfig{WindowDays: 30, HistoryConcurrency: 1},
	}
	app := New(cfg, logger.Nop())

	var built bool
	resolve, _, err := app.root.Find([]string{"alerts", "resolve"})
	require.NoError(t, err)
	inner := resolve.RunE
	resolve.RunE = func(cmd *cobra.Command, args []string) error {
		built = app.rt.svc != nil
		return inner(cmd, args)
	}

	app.root.SetOut(io.Discard)
	app.root.SetErr(io.Discard)
	app.root.SetArgs([]string{"alerts", "resolve", "no-existe"})
	require.Error(t, app.Execute(context.Background()))

	assert.True(t, built, "los servicios existían durante el comando")
	assert.Nil(t, app.rt.svc, "Execute los libera aunque RunE falle")
}
