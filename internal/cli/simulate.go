package cli

import (
	"github.com/spf13/cobra"

	"options-lab/internal/models"
	"options-lab/internal/risk"
)

// addSimulateCommands adds Monte Carlo simulation commands.
func addSimulateCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSimulateCmd(app))
}

func newSimulateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Monte Carlo equity simulation for a trade setup",
		Example: `  optlab simulate --win-rate 0.55 --rr 1.5 --risk 0.02
  optlab simulate --win-rate 0.55 --rr 1.5 --risk 0.02 --stress
  optlab simulate --win-rate 0.55 --rr 1.5 --quick`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			winRate, _ := cmd.Flags().GetFloat64("win-rate")
			rr, _ := cmd.Flags().GetFloat64("rr")
			riskPerTrade, _ := cmd.Flags().GetFloat64("risk")
			sims, _ := cmd.Flags().GetInt("sims")
			trades, _ := cmd.Flags().GetInt("trades")
			seed, _ := cmd.Flags().GetInt64("seed")
			stress, _ := cmd.Flags().GetBool("stress")
			quick, _ := cmd.Flags().GetBool("quick")
			bands, _ := cmd.Flags().GetBool("bands")

			engine := risk.NewEngineWithRuinThreshold(app.Config.Simulation.RuinThreshold)

			if quick {
				qa := engine.QuickAssessment(winRate, rr, riskPerTrade)
				if output.IsJSON() {
					return output.JSON(qa)
				}
				output.Bold("Quick assessment (%.0f%% win rate, %.2f R:R)", winRate*100, rr)
				output.Printf("  EV per unit risked: %.3f\n", qa.EVPerTrade)
				output.Printf("  Kelly fraction:     %.3f\n", qa.KellyFraction)
				output.Printf("  Recommended risk:   %.3f\n", qa.RecommendedRisk)
				if qa.IsProfitable {
					output.Success("  %s", qa.Recommendation)
				} else {
					output.Error("  %s", qa.Recommendation)
				}
				breakeven, target := engine.RequiredWinRate(rr, 0.2)
				output.Printf("  Breakeven win rate: %.1f%%, for 0.2 EV: %.1f%%\n", breakeven*100, target*100)
				return nil
			}

			params := models.SimulationParams{
				WinRate:         winRate,
				AvgRR:           rr,
				RiskPerTrade:    riskPerTrade,
				NumSimulations:  sims,
				NumTrades:       trades,
				StartingCapital: app.Config.Account.Size,
				Seed:            seed,
			}
			if params.NumSimulations == 0 {
				params.NumSimulations = app.Config.Simulation.NumSimulations
			}
			if params.NumTrades == 0 {
				params.NumTrades = app.Config.Simulation.NumTrades
			}
			if params.Seed == 0 {
				params.Seed = app.Config.Simulation.Seed
			}

			if stress {
				scenarios, err := engine.StressTest(params)
				if err != nil {
					output.Error("Stress test failed: %v", err)
					return err
				}
				if output.IsJSON() {
					return output.JSON(scenarios)
				}
				output.Bold("Stress scenarios")
				for _, sc := range scenarios {
					output.Printf("  %-12s win rate %.2f: equity %.0f, ruin %.1f%%, return %.1f%%\n",
						sc.Name, sc.WinRate, sc.ExpectedEquity, sc.RiskOfRuin*100, sc.AvgReturnPct)
				}
				return nil
			}

			res, err := engine.Simulate(params)
			if err != nil {
				output.Error("Simulation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				// paths are bulky, report the summary only
				summary := *res
				summary.Paths = models.EquityPaths{}
				return output.JSON(summary)
			}

			output.Bold("Monte Carlo: %d paths x %d trades at %.1f%% risk",
				res.Params.NumSimulations, res.Params.NumTrades, res.Params.RiskPerTrade*100)
			output.Printf("  Expected equity:  %.0f (%.1f%% return)\n", res.ExpectedEquity, res.AvgReturnPct)
			output.Printf("  Median equity:    %.0f\n", res.MedianEquity)
			output.Printf("  5th / 95th pct:   %.0f / %.0f\n", res.Percentile5Equity, res.Percentile95Equity)
			output.Printf("  Prob of profit:   %.1f%%\n", res.ProbabilityOfProfit*100)
			output.Printf("  Avg max drawdown: %.1f%%\n", res.AvgMaxDrawdownPct)
			output.Printf("  Worst drawdown:   %.1f%%\n", res.WorstDrawdownPct)
			if res.RiskOfRuin > 0.10 {
				output.Error("  Risk of ruin:     %.1f%%", res.RiskOfRuin*100)
			} else {
				output.Printf("  Risk of ruin:     %.1f%%\n", res.RiskOfRuin*100)
			}

			if bands {
				pb, err := engine.PercentileBands(res.Paths, nil)
				if err != nil {
					return err
				}
				output.Bold("Final-step percentile bands")
				last := res.Paths.Steps - 1
				for i, pct := range pb.Percentiles {
					output.Printf("  p%-3.0f %.0f\n", pct, pb.Bands[i][last])
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64("win-rate", 0.5, "estimated win rate (decimal)")
	cmd.Flags().Float64("rr", 1.0, "average risk/reward ratio")
	cmd.Flags().Float64("risk", 0.02, "risk per trade (fraction of equity)")
	cmd.Flags().Int("sims", 0, "number of simulated paths")
	cmd.Flags().Int("trades", 0, "trades per path")
	cmd.Flags().Int64("seed", 0, "random seed")
	cmd.Flags().Bool("stress", false, "run shocked win-rate scenarios")
	cmd.Flags().Bool("quick", false, "closed-form assessment without simulating")
	cmd.Flags().Bool("bands", false, "show final equity percentile bands")

	return cmd
}
