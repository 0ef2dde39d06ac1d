package cli

import (
	"github.com/spf13/cobra"

	"options-lab/internal/sizing"
)

// addSizingCommands adds position sizing commands.
func addSizingCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSizeCmd(app))
}

func newSizeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "size",
		Short: "Kelly-based position sizing for a trade setup",
		Example: `  optlab size --win-rate 0.6 --rr 1.5 --trades 120 --max-loss 2000
  optlab size --win-rate 0.6 --rr 1.5 --trades 40 --max-loss 2000 --compare --vol 22`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			winRate, _ := cmd.Flags().GetFloat64("win-rate")
			rr, _ := cmd.Flags().GetFloat64("rr")
			trades, _ := cmd.Flags().GetInt("trades")
			maxLoss, _ := cmd.Flags().GetFloat64("max-loss")
			compare, _ := cmd.Flags().GetBool("compare")
			vol, _ := cmd.Flags().GetFloat64("vol")
			ladder, _ := cmd.Flags().GetBool("ladder")

			sizer := sizing.NewWithSafetyFactor(app.Config.Account.Size, app.Config.Account.MaxRiskPerTrade,
				app.Config.Account.LotSize, app.Config.Account.KellySafetyFactor)

			if ladder {
				results := sizer.RiskLadder(winRate, rr)
				if output.IsJSON() {
					return output.JSON(results)
				}
				output.Bold("Kelly ladder for %.0f%% win rate at %.2f R:R", winRate*100, rr)
				samples := []int{10, 25, 50, 100, 250}
				for i, r := range results {
					output.Printf("  %4d trades: %.2f%% of account (%.2f at risk)\n",
						samples[i], r.RecommendedFraction*100, r.CapitalAtRisk)
				}
				return nil
			}

			if compare {
				results := sizer.CompareMethods(winRate, rr, trades, vol, maxLoss)
				if output.IsJSON() {
					return output.JSON(results)
				}
				for _, method := range []string{"kelly", "fixed_fraction", "volatility_adjusted"} {
					r := results[method]
					output.Bold("%s", method)
					output.Printf("  %d lots (%.0f units), %.2f at risk (%.2f%%)\n",
						r.NumLots, r.RecommendedSize, r.CapitalAtRisk, r.RiskPct)
					for _, w := range r.Warnings {
						output.Warning("  ! %s", w)
					}
				}
				return nil
			}

			kelly := sizer.KellyFraction(winRate, rr, trades)
			result := sizer.CalculatePositionSize(kelly, maxLoss)

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Position size (%.0f%% win rate, %.2f R:R, %d trades history)", winRate*100, rr, trades)
			output.Printf("  Full Kelly:     %.2f%%\n", kelly.FullKelly*100)
			output.Printf("  Quarter Kelly:  %.2f%%\n", kelly.SafeKelly*100)
			output.Printf("  Recommended:    %.2f%% of account\n", kelly.RecommendedFraction*100)
			output.Printf("  Lots:           %d (%.0f units)\n", result.NumLots, result.RecommendedSize)
			output.Printf("  Capital risked: %.2f (%.2f%%)\n", result.CapitalAtRisk, result.RiskPct)
			for _, w := range result.Warnings {
				output.Warning("  ! %s", w)
			}
			return nil
		},
	}

	cmd.Flags().Float64("win-rate", 0.5, "estimated win rate (decimal)")
	cmd.Flags().Float64("rr", 1.0, "average risk/reward ratio")
	cmd.Flags().Int("trades", 0, "number of historical trades behind the estimate")
	cmd.Flags().Float64("max-loss", 0, "max loss per lot")
	cmd.Flags().Bool("compare", false, "compare sizing methods side by side")
	cmd.Flags().Float64("vol", 15, "current annualized volatility percent (for --compare)")
	cmd.Flags().Bool("ladder", false, "show how size scales with trade history")

	return cmd
}
