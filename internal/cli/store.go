package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
)

func migrateCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el esquema embebido en PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rt.svc.Pool == nil {
				return errors.New("migrate requiere --store=postgres")
			}
			if err := postgres.Migrate(cmd.Context(), rt.svc.Pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "esquema aplicado")
			return nil
		},
	}
}

func seedCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <catalogo.csv>",
		Short: "Carga productos desde un CSV (sku,name,category,price,stock)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := rt.svc.SeedCatalog(cmd.Context(), args[0], rt.charset)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "insertados: %d, omitidos: %d\n", res.Inserted, res.Skipped)
			return nil
		},
	}
}

func historyCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "history <productId>",
		Short: "Historia de eventos y estadísticas de un producto",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := rt.svc.Analytics.ProductHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.FromProductHistory(h))
		},
	}
}

func thresholdCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threshold",
		Short: "Consulta o define umbrales por producto",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <productId>",
			Short: "Umbral efectivo del producto",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, ok, err := rt.svc.Thresholds.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					value = rt.cfg.Alerts.DefaultThreshold
				}
				return printJSON(cmd.OutOrStdout(), dto.ThresholdResponse{ProductID: args[0], Value: value, Custom: ok})
			},
		},
		&cobra.Command{
			Use:   "set <productId> <valor>",
			Short: "Define el umbral del producto (valor > 0)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("valor inválido %q", args[1])
				}
				th, err := rt.svc.Thresholds.Set(cmd.Context(), args[0], value)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.ThresholdResponse{ProductID: th.ProductID, Value: th.Value, Custom: true})
			},
		},
	)
	return cmd
}
