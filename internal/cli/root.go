// Package cli comandos de stockctl: mantenimiento y consultas sobre el mismo backend que la API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

type runtime struct {
	cfg *config.Config
	log *logger.Logger
	svc *bootstrap.Services

	charset string
}

func (rt *runtime) close() {
	if rt.svc != nil {
		rt.svc.Close()
		rt.svc = nil
	}
}

// App árbol de comandos de stockctl y los servicios que construye al ejecutarse.
type App struct {
	root *cobra.Command
	rt   *runtime
}

// New arma el árbol de comandos. Los servicios se construyen antes de cada subcomando
// salvo los que no tocan el almacenamiento.
func New(cfg *config.Config, log *logger.Logger) *App {
	rt := &runtime{cfg: cfg, log: log}
	return &App{root: rootCommand(rt), rt: rt}
}

// Command devuelve el comando raíz (flags, salida, argumentos).
func (a *App) Command() *cobra.Command { return a.root }

// Execute ejecuta el comando y libera los servicios aunque el comando falle:
// cobra no llama a PersistentPostRun cuando RunE devuelve error.
func (a *App) Execute(ctx context.Context) error {
	defer a.rt.close()
	return a.root.ExecuteContext(ctx)
}

func rootCommand(rt *runtime) *cobra.Command {

	var store, seed string
	root := &cobra.Command{
		Use:           "stockctl",
		Short:         "Herramientas de línea de comandos del ledger de stock",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&store, "store", "", "backend: postgres | memory (por defecto STORE_DRIVER)")
	root.PersistentFlags().StringVar(&seed, "seed", "", "CSV de catálogo a cargar antes del comando")
	root.PersistentFlags().StringVar(&rt.charset, "charset", "utf-8", "codificación del CSV: utf-8 | latin1")

	tokenCmd := tokenCommand(rt)
	root.AddCommand(
		migrateCommand(rt),
		seedCommand(rt),
		reconcileCommand(rt),
		historyCommand(rt),
		thresholdCommand(rt),
		alertsCommand(rt),
		reportCommand(rt),
		tokenCmd,
	)

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == tokenCmd.Name() {
			return nil
		}
		if store != "" {
			rt.cfg.Store.Driver = store
		}
		if seed != "" {
			rt.cfg.Store.SeedFile = seed
			rt.cfg.Store.SeedCharset = rt.charset
		}
		if err := rt.cfg.Validate(); err != nil {
			return err
		}
		svc, err := bootstrap.Build(cmd.Context(), rt.cfg, rt.log, nil)
		if err != nil {
			return err
		}
		rt.svc = svc
		return nil
	}
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("escribir salida: %w", err)
	}
	return nil
}
