package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"options-lab/internal/analysis"
	"options-lab/internal/decision"
	"options-lab/internal/models"
	"options-lab/internal/risk"
)

// addDecisionCommands adds decision generation commands.
func addDecisionCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newDecideCmd(app))
	rootCmd.AddCommand(newRegimeCmd(app))
}

func newDecideCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Full go/no-go decision for a strategy",
		Long: `Runs the complete decision pipeline: volatility edge from the chain
and price history, expected value from the payoff envelope, composite
scoring, Monte Carlo risk of ruin, and the final gated decision. The
decision is appended to the audit log.`,
		Example: `  optlab decide --spot 26000 --iv 0.15 --dte 30 \
    --leg "SELL PE 25800 40" --leg "SELL CE 26200 40" \
    --leg "BUY PE 25700 10" --leg "BUY CE 26500 10" \
    --chain snapshots/nifty.csv --history snapshots/closes.csv \
    --win-rate 0.6 --rr 1.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			s, iv, dte, err := buildStrategy(cmd, app)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			chainPath, _ := cmd.Flags().GetString("chain")
			historyPath, _ := cmd.Flags().GetString("history")
			winRate, _ := cmd.Flags().GetFloat64("win-rate")
			rr, _ := cmd.Flags().GetFloat64("rr")

			var rows []models.ChainRow
			if chainPath != "" {
				rows, err = LoadChainCSV(chainPath)
				if err != nil {
					output.Error("Failed to load chain: %v", err)
					return err
				}
			}
			var closes []float64
			if historyPath != "" {
				closes, err = LoadClosesCSV(historyPath)
				if err != nil {
					output.Error("Failed to load history: %v", err)
					return err
				}
			}

			edge := decision.VolatilityEdge(rows, s.SpotPrice, closes)
			metrics := s.Metrics(iv, dte)
			ev := decision.ExpectedValue(metrics, s.SpotPrice, dte)

			market := models.MarketMetrics{}
			if len(rows) > 0 {
				if analyzer, aerr := analysis.NewChainAnalyzer(rows); aerr == nil {
					cm := analyzer.Metrics()
					market.PCR = cm.PCR
					market.TotalOI = cm.TotalOI
				}
			}
			score := decision.ScoreTrade(edge, ev, market, nil)

			riskEngine := risk.NewEngineWithRuinThreshold(app.Config.Simulation.RuinThreshold)
			sim, err := riskEngine.Simulate(models.SimulationParams{
				WinRate:         winRate,
				AvgRR:           rr,
				RiskPerTrade:    0.02,
				NumSimulations:  app.Config.Simulation.NumSimulations,
				NumTrades:       app.Config.Simulation.NumTrades,
				StartingCapital: app.Config.Account.Size,
				Seed:            app.Config.Simulation.Seed,
			})
			if err != nil {
				output.Error("Risk simulation failed: %v", err)
				return err
			}

			engine := decision.NewEngine(decision.Thresholds{
				VolEdgeThreshold: app.Config.Decision.VolEdgeThreshold,
				MinTradeScore:    app.Config.Decision.MinTradeScore,
				MinRiskReward:    app.Config.Decision.MinRiskReward,
				MaxRiskOfRuin:    app.Config.Decision.MaxRiskOfRuin,
			}, app.Logger)

			d := engine.Decide(decision.Input{
				StrategyName: s.Name,
				VolEdge:      edge,
				EV:           ev,
				Score:        score,
				RiskOfRuin:   sim.RiskOfRuin,
			})

			if app.Store != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := app.Store.SaveDecision(ctx, d); err != nil {
					app.Logger.Warn().Err(err).Msg("Failed to persist decision")
				}
			}

			if output.IsJSON() {
				return output.JSON(struct {
					Decision models.Decision   `json:"decision"`
					VolEdge  models.VolEdge    `json:"vol_edge"`
					EV       models.EVMetrics  `json:"expected_value"`
					Score    models.TradeScore `json:"score"`
				}{d, edge, ev, score})
			}

			if d.TradeAllowed {
				output.Success("%s", d.Summary)
			} else {
				output.Error("%s", d.Summary)
			}
			output.Printf("  Vol edge:  %.2f (%s)\n", edge.Score, edge.Interpretation)
			output.Printf("  EV:        %.2f at %.1f%% win probability\n", ev.ExpectedValue, ev.PositiveProbability*100)
			output.Printf("  Score:     %d (%s confidence)\n", score.Score, score.Confidence)
			output.Printf("  Ruin risk: %.1f%%\n", sim.RiskOfRuin*100)
			for _, r := range d.Reasoning {
				output.Printf("  + %s\n", r)
			}
			for _, f := range d.RiskFlags {
				output.Warning("  ! %s", f)
			}
			return nil
		},
	}

	addStrategyFlags(cmd)
	cmd.Flags().String("chain", "", "option chain CSV for volatility edge and positioning")
	cmd.Flags().String("history", "", "price history CSV for realized volatility")
	cmd.Flags().Float64("win-rate", 0.5, "estimated win rate for the ruin simulation")
	cmd.Flags().Float64("rr", 1.0, "average risk/reward for the ruin simulation")

	return cmd
}

func newRegimeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regime",
		Short: "Market regime classification from the put/call ratio",
		Example: `  optlab regime --pcr 1.25
  optlab regime --chain snapshots/nifty.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			pcr, _ := cmd.Flags().GetFloat64("pcr")
			chainPath, _ := cmd.Flags().GetString("chain")

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

			r := decision.AnalyzeRegime(pcr)
			if output.IsJSON() {
				return output.JSON(r)
			}
			output.Bold("%s (PCR %.2f)", r.Regime, r.PCR)
			output.Printf("  Bias: %s\n", r.Bias)
			output.Printf("  Hint: %s\n", r.StrategyHint)
			return nil
		},
	}

	cmd.Flags().Float64("pcr", 1.0, "put/call open interest ratio")
	cmd.Flags().String("chain", "", "option chain CSV to compute PCR from")

	return cmd
}
