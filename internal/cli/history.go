package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"options-lab/internal/errors"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse the decision audit log",
		Example: `  optlab history
  optlab history --limit 5
  optlab history --id 5f3c...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Store == nil {
				output.Error("Decision log is unavailable")
				return errors.ErrDatabaseError
			}

			limit, _ := cmd.Flags().GetInt("limit")
			id, _ := cmd.Flags().GetString("id")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if id != "" {
				d, err := app.Store.GetDecisionByID(ctx, id)
				if err != nil {
					output.Error("Decision %s not found: %v", id, err)
					return err
				}
				if output.IsJSON() {
					return output.JSON(d)
				}
				output.Bold("%s", d.Summary)
				output.Printf("  ID:        %s\n", d.ID)
				output.Printf("  Timestamp: %s\n", d.Timestamp.Format(time.RFC3339))
				output.Printf("  Strategy:  %s\n", d.StrategyName)
				for _, r := range d.Reasoning {
					output.Printf("  + %s\n", r)
				}
				for _, f := range d.RiskFlags {
					output.Warning("  ! %s", f)
				}
				return nil
			}

			decisions, err := app.Store.GetDecisions(ctx, limit)
			if err != nil {
				output.Error("Failed to read decision log: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(decisions)
			}
			if len(decisions) == 0 {
				output.Info("No decisions recorded yet")
				return nil
			}
			for _, d := range decisions {
				verdict := output.Red("REJECT")
				if d.TradeAllowed {
					verdict = output.Green("ALLOW ")
				}
				output.Printf("%s  %s  %-20s conf %3d  flags %d  %s\n",
					d.Timestamp.Format("2006-01-02 15:04"), verdict, d.StrategyName,
					d.Confidence, len(d.RiskFlags), d.ID)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "number of decisions to show")
	cmd.Flags().String("id", "", "show a single decision by ID")

	return cmd
}
