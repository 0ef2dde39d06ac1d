package cli

import (
	"github.com/spf13/cobra"

	"options-lab/internal/greeks"
	"options-lab/internal/models"
)

// addGreeksCommands adds option pricing commands.
func addGreeksCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newGreeksCmd(app))
}

func newGreeksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greeks",
		Short: "Black-Scholes Greeks for a single option",
		Example: `  optlab greeks --spot 26000 --strike 26200 --dte 30 --iv 0.15 --type CE
  optlab greeks --spot 26000 --strike 25800 --dte 7 --iv 0.22 --type PE --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			spot, _ := cmd.Flags().GetFloat64("spot")
			strike, _ := cmd.Flags().GetFloat64("strike")
			dte, _ := cmd.Flags().GetInt("dte")
			iv, _ := cmd.Flags().GetFloat64("iv")
			typeStr, _ := cmd.Flags().GetString("type")

			optType := models.Call
			if typeStr == "PE" || typeStr == "PUT" {
				optType = models.Put
			}

			engine := greeks.NewEngineWithRate(app.Config.Account.RiskFreeRate)
			g := engine.Calculate(spot, strike, float64(dte)/365, iv, optType)

			if output.IsJSON() {
				return output.JSON(g)
			}

			output.Bold("%s %.0f @ spot %.0f, %d dte, %.1f%% IV", optType, strike, spot, dte, iv*100)
			output.Printf("  Delta: %8.4f\n", g.Delta)
			output.Printf("  Gamma: %8.6f\n", g.Gamma)
			output.Printf("  Theta: %8.2f per day\n", g.Theta)
			output.Printf("  Vega:  %8.2f per 1%% vol\n", g.Vega)
			output.Printf("  Rho:   %8.2f per 1%% rate\n", g.Rho)
			return nil
		},
	}

	cmd.Flags().Float64("spot", 0, "underlying spot price")
	cmd.Flags().Float64("strike", 0, "option strike")
	cmd.Flags().Int("dte", 30, "days to expiry")
	cmd.Flags().Float64("iv", 0.15, "implied volatility (decimal)")
	cmd.Flags().String("type", "CE", "option type (CE or PE)")
	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("strike")

	return cmd
}
