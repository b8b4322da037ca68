package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rushteam/cfrec/eval"
	"github.com/rushteam/cfrec/pkg/log"
)

var evaluateCommand = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate precision and recall on the test split.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		split, err := loadSplit(cfg)
		if err != nil {
			return err
		}
		p, err := buildPipeline(cfg, split.Train, split.Catalog)
		if err != nil {
			return err
		}

		evaluator := &eval.Evaluator{
			Recommender:   p,
			Train:         split.Train,
			GoodRating:    cfg.Evaluation.GoodRating,
			MaxConcurrent: cfg.Evaluation.MaxConcurrent,
		}
		users, _ := cmd.Flags().GetInt64Slice("users")
		if len(users) == 0 {
			users = evaluator.Users(split.Test)
		}
		bar := progressbar.Default(int64(len(users)), "evaluating")
		evaluator.OnUser = func(eval.UserScore) { _ = bar.Add(1) }
		report, err := evaluator.Evaluate(cmd.Context(), split.Test, users...)
		_ = bar.Finish()
		if err != nil {
			return err
		}
		log.Logger().Info("evaluation done",
			zap.String("pipeline", p.Name),
			zap.Int("users", len(report.Users)),
			zap.Float64("precision", report.Precision),
			zap.Float64("recall", report.Recall))

		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			table := tablewriter.NewWriter(os.Stdout)
			table.Header("user", "items", "precision", "recall")
			for _, s := range report.Users {
				if err := table.Append([]string{
					strconv.FormatInt(s.UserID, 10),
					strconv.Itoa(s.Items),
					strconv.FormatFloat(s.Precision, 'f', 4, 64),
					strconv.FormatFloat(s.Recall, 'f', 4, 64),
				}); err != nil {
					return err
				}
			}
			if err := table.Render(); err != nil {
				return err
			}
		}
		fmt.Printf("users: %d\nprecision: %.6f\nrecall: %.6f\n",
			len(report.Users), report.Precision, report.Recall)
		return nil
	},
}

func init() {
	evaluateCommand.Flags().Int64Slice("users", nil, "evaluate only these users (default test users that also appear in the training split)")
	evaluateCommand.Flags().BoolP("verbose", "v", false, "print per-user scores")
}
