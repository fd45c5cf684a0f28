package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

func tokenCommand(rt *runtime) *cobra.Command {
	var (
		userID string
		role   string
		exp    int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token JWT para la API firmado con JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if exp <= 0 {
				exp = rt.cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(rt.cfg.JWT.Secret, userID, role, rt.cfg.JWT.Issuer, exp)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "ID del usuario")
	cmd.Flags().StringVar(&role, "role", "bodeguero", "rol: admin | bodeguero | consulta")
	cmd.Flags().IntVar(&exp, "exp", 0, "minutos de validez (por defecto JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
