package cli

import (
	"time"

	"github.com/spf13/cobra"

	"options-lab/internal/analysis"
	"options-lab/internal/errors"
	"options-lab/internal/strategy"
)

// addAnalyzeCommands adds strategy and chain analysis commands.
func addAnalyzeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newChainCmd(app))
}

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Payoff and risk metrics for a multi-leg strategy",
		Long: `Build a strategy from legs and derive its full risk picture:
net premium, breakevens, max profit/loss, probability of profit,
aggregate Greeks and estimated margin.`,
		Example: `  optlab analyze --spot 26000 --iv 0.15 --dte 30 \
    --leg "BUY PE 25700 10" --leg "SELL PE 25800 40" \
    --leg "SELL CE 26200 40" --leg "BUY CE 26500 10"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			s, iv, dte, err := buildStrategy(cmd, app)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			m := s.Metrics(iv, dte)

			if output.IsJSON() {
				return output.JSON(m)
			}

			output.Bold("%s @ spot %.0f (lot %d, %d dte)", s.Name, s.SpotPrice, s.LotSize, dte)
			output.Printf("  Kind:        %s\n", m.Kind)
			output.Printf("  Net premium: %.2f (debit %.2f / credit %.2f)\n", m.NetPremium, m.NetDebit, m.NetCredit)
			output.Printf("  Max profit:  %s\n", m.MaxProfit)
			output.Printf("  Max loss:    %s\n", m.MaxLoss)
			output.Printf("  Breakevens:  %v\n", m.Breakevens)
			output.Printf("  POP:         %.1f%%\n", m.POP*100)
			output.Printf("  Risk/reward: %.2f\n", m.RiskReward)
			output.Printf("  Margin est:  %.2f\n", m.EstimatedMargin)
			output.Printf("  Net Greeks:  delta %.2f  gamma %.5f  theta %.2f  vega %.2f\n",
				m.NetGreeks.Delta, m.NetGreeks.Gamma, m.NetGreeks.Theta, m.NetGreeks.Vega)
			for _, w := range m.Warnings {
				output.Warning("  ! %s", w)
			}
			return nil
		},
	}

	addStrategyFlags(cmd)
	return cmd
}

func newChainCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain <file>",
		Short: "Positioning metrics from an option chain CSV",
		Example: `  optlab chain snapshots/nifty.csv
  optlab chain snapshots/nifty.csv --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			rows, err := LoadChainCSV(args[0])
			if err != nil {
				output.Error("Failed to load chain: %v", err)
				return err
			}
			analyzer, err := analysis.NewChainAnalyzer(rows)
			if err != nil {
				return err
			}
			m := analyzer.Metrics()

			if output.IsJSON() {
				return output.JSON(m)
			}

			output.Bold("Chain metrics (%d rows)", len(rows))
			output.Printf("  PCR:           %.2f\n", m.PCR)
			output.Printf("  Total OI:      %d (CE %d / PE %d)\n", m.TotalOI, m.CallOI, m.PutOI)
			output.Printf("  Max pain:      %.0f\n", m.MaxPain)
			output.Printf("  Concentration: %.1f%% in top %d strikes\n", m.ConcentrationRatio*100, len(m.TopStrikes))
			for _, s := range m.TopStrikes {
				output.Printf("    %s %.0f: %d\n", s.OptionType, s.Strike, s.OI)
			}
			return nil
		},
	}
	return cmd
}

// addStrategyFlags registers the shared leg-building flags.
func addStrategyFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("spot", 0, "underlying spot price")
	cmd.Flags().Int("lot", 50, "lot size")
	cmd.Flags().Float64("iv", 0.15, "implied volatility (decimal)")
	cmd.Flags().Int("dte", 30, "days to expiry")
	cmd.Flags().String("name", "Custom", "strategy name")
	cmd.Flags().StringArray("leg", nil, `leg as "BUY|SELL CE|PE <strike> <price> [qty]" (repeatable)`)
	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("leg")
}

// buildStrategy assembles a strategy from the shared flags.
func buildStrategy(cmd *cobra.Command, app *App) (*strategy.Strategy, float64, int, error) {
	spot, _ := cmd.Flags().GetFloat64("spot")
	lot, _ := cmd.Flags().GetInt("lot")
	iv, _ := cmd.Flags().GetFloat64("iv")
	dte, _ := cmd.Flags().GetInt("dte")
	name, _ := cmd.Flags().GetString("name")
	legSpecs, _ := cmd.Flags().GetStringArray("leg")

	if lot == 0 {
		lot = app.Config.Account.LotSize
	}

	s, err := strategy.New(name, spot, lot)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(legSpecs) == 0 {
		return nil, 0, 0, errors.ErrNoLegs
	}

	expiry := time.Now().AddDate(0, 0, dte)
	for _, raw := range legSpecs {
		leg, err := ParseLeg(raw, expiry)
		if err != nil {
			return nil, 0, 0, err
		}
		s.AddLeg(leg)
	}
	return s, iv, dte, nil
}
