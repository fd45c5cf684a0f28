package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/report"
)

const dateLayout = "2006-01-02"

func reportCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Reportes de stock",
	}

	var from, to, pdfPath string
	stock := &cobra.Command{
		Use:   "stock",
		Short: "Reporte de stock por rango (JSON o PDF)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rng, err := parseRange(from, to)
			if err != nil {
				return err
			}
			if pdfPath != "" {
				body, err := rt.svc.Reports.StockReportPDF(cmd.Context(), rng)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pdfPath, body, 0o644); err != nil {
					return fmt.Errorf("escribir %s: %w", pdfPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reporte escrito en %s (%d bytes)\n", pdfPath, len(body))
				return nil
			}
			rep, err := rt.svc.Reports.StockReport(cmd.Context(), rng)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.FromStockReport(rep))
		},
	}
	stock.Flags().StringVar(&from, "from", "", "fecha inicial YYYY-MM-DD")
	stock.Flags().StringVar(&to, "to", "", "fecha final YYYY-MM-DD (incluida)")
	stock.Flags().StringVar(&pdfPath, "pdf", "", "escribe el reporte en PDF en esta ruta")

	var threshold int
	low := &cobra.Command{
		Use:   "low-stock",
		Short: "Productos bajo umbral",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := rt.svc.Reports.LowStockReport(cmd.Context(), threshold)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.FromLowStockReport(rep))
		},
	}
	low.Flags().IntVar(&threshold, "threshold", 0, "corte fijo; 0 usa el umbral efectivo de cada producto")

	cmd.AddCommand(stock, low)
	return cmd
}

func parseRange(from, to string) (report.DateRange, error) {
	var rng report.DateRange
	if from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return rng, fmt.Errorf("--from inválida: %q", from)
		}
		rng.From = t
	}
	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return rng, fmt.Errorf("--to inválida: %q", to)
		}
		rng.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	return rng, nil
}
