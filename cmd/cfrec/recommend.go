package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rushteam/cfrec/core"
)

var recommendCommand = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend items for a user from the training set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		train, catalog, err := loadTrain(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		p, err := buildPipeline(cfg, train, catalog)
		if err != nil {
			return err
		}
		user, _ := cmd.Flags().GetInt64("user")
		rec, err := p.Recommend(cmd.Context(), user)
		if err != nil {
			return err
		}
		if len(rec) == 0 {
			fmt.Printf("no recommendation for user %d\n", user)
			return nil
		}
		return renderScored(os.Stdout, "item", rec)
	},
}

func init() {
	recommendCommand.Flags().Int64P("user", "u", 0, "user id")
	_ = recommendCommand.MarkFlagRequired("user")
}

func renderScored(w io.Writer, idHeader string, rows []core.Scored) error {
	table := tablewriter.NewWriter(w)
	table.Header("rank", idHeader, "score")
	for i, s := range rows {
		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(s.ID, 10),
			strconv.FormatFloat(s.Score, 'f', 4, 64),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}
