package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"options-lab/internal/analysis"
	"options-lab/internal/decision"
	"options-lab/internal/models"
)

// addHistoryCommands adds the signal and history commands.
func addHistoryCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSignalCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
}

func newSignalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signal",
		Short: "Directional signal from RSI and PCR confluence",
		Example: `  optlab signal --history snapshots/closes.csv --chain snapshots/nifty.csv
  optlab signal --history snapshots/closes.csv --pcr 0.6 --validate IRON_CONDOR`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			historyPath, _ := cmd.Flags().GetString("history")
			chainPath, _ := cmd.Flags().GetString("chain")
			pcr, _ := cmd.Flags().GetFloat64("pcr")
			validate, _ := cmd.Flags().GetString("validate")

			closes, err := LoadClosesCSV(historyPath)
			if err != nil {
				output.Error("Failed to load history: %v", err)
				return err
			}

			if chainPath != "" {
				rows, err := LoadChainCSV(chainPath)
				if err != nil {
					output.Error("Failed to load chain: %v", err)
					return err
				}
				analyzer, err := analysis.NewChainAnalyzer(rows)
				if err != nil {
					return err
				}
				pcr = analyzer.PCR()
			}

			sig, err := decision.NewSignalEngine().Generate(closes, pcr)
			if err != nil {
				output.Error("Signal generation failed: %v", err)
				return err
			}

			var validation *models.SignalValidation
			if validate != "" {
				category := models.StrategyCategory(strings.ToUpper(validate))
				engine := decision.NewEngine(decision.Thresholds{
					VolEdgeThreshold: app.Config.Decision.VolEdgeThreshold,
					MinTradeScore:    app.Config.Decision.MinTradeScore,
					MinRiskReward:    app.Config.Decision.MinRiskReward,
					MaxRiskOfRuin:    app.Config.Decision.MaxRiskOfRuin,
				}, app.Logger)
				v := engine.ValidateWithSignal(category, sig, 0, 0)
				validation = &v
			}

			if output.IsJSON() {
				return output.JSON(struct {
					Signal     models.DirectionalSignal `json:"signal"`
					Validation *models.SignalValidation `json:"validation,omitempty"`
				}{sig, validation})
			}

			switch sig.Signal {
			case models.SignalCallBuy:
				output.Success("%s (confidence %.0f)", sig.Signal, sig.Confidence)
			case models.SignalPutBuy:
				output.Error("%s (confidence %.0f)", sig.Signal, sig.Confidence)
			default:
				output.Info("%s", sig.Signal)
			}
			output.Printf("  RSI: %.1f  PCR: %.2f\n", sig.RSI, sig.PCR)
			for _, r := range sig.Reasons {
				output.Printf("  - %s\n", r)
			}

			if validation != nil {
				if validation.Allowed {
					output.Success("Validated for %s at confidence %d", strings.ToUpper(validate), validation.Confidence)
				} else {
					output.Error("Rejected for %s", strings.ToUpper(validate))
				}
				for _, r := range validation.Reasons {
					output.Printf("  - %s\n", r)
				}
				for _, w := range validation.Warnings {
					output.Warning("  ! %s", w)
				}
			}
			return nil
		},
	}

	cmd.Flags().String("history", "", "price history CSV (Date, Close)")
	cmd.Flags().String("chain", "", "option chain CSV to compute PCR from")
	cmd.Flags().Float64("pcr", 1.0, "put/call ratio when no chain is given")
	cmd.Flags().String("validate", "", "validate a strategy category against the signal")
	cmd.MarkFlagRequired("history")

	return cmd
}
