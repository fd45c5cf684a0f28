package cli

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

func reconcileCommand(rt *runtime) *cobra.Command {
	var (
		threshold        int
		resolveRecovered bool
	)
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Crea alertas para productos bajo su umbral",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if threshold == 0 {
				threshold = rt.cfg.Alerts.DefaultThreshold
			}
			res, err := rt.svc.Alerts.ReconcileCatalog(ctx, threshold)
			if err != nil {
				return err
			}
			out := dto.FromReconcileResult(res)
			if resolveRecovered {
				resolved, failures, err := rt.svc.Alerts.ResolveRecoveredCatalog(ctx, threshold)
				if err != nil {
					return err
				}
				out.Resolved = dto.FromAlerts(resolved)
				for _, f := range failures {
					out.Failures = append(out.Failures, dto.ReconcileFailureDTO{ProductID: f.ProductID, Error: f.Err.Error()})
				}
				active, err := rt.svc.Alerts.ActiveAlerts(ctx)
				if err != nil {
					return err
				}
				out.Active = dto.FromAlerts(active)
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", 0, "umbral global (por defecto ALERT_DEFAULT_THRESHOLD)")
	cmd.Flags().BoolVar(&resolveRecovered, "resolve-recovered", false, "resolver alertas de productos recuperados")
	return cmd
}

func alertsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Alertas de reabastecimiento",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Alertas activas",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				list, err := rt.svc.Alerts.ActiveAlerts(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.FromAlerts(list))
			},
		},
		&cobra.Command{
			Use:   "resolve <alertId>",
			Short: "Resuelve una alerta (idempotente)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := rt.svc.Alerts.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.FromAlert(*a))
			},
		},
	)
	return cmd
}
