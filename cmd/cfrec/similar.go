package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rushteam/cfrec/pipeline"
	"github.com/rushteam/cfrec/pkg/conv"
	"github.com/rushteam/cfrec/recall"
	"github.com/rushteam/cfrec/similarity"
)

var similarCommand = &cobra.Command{
	Use:   "similar",
	Short: "List the users most similar to a user.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		train, _, err := loadTrain(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		scorer, err := similarity.ByName(configuredMetric(cfg))
		if err != nil {
			return err
		}
		user, _ := cmd.Flags().GetInt64("user")
		n, _ := cmd.Flags().GetInt("n")
		return renderScored(os.Stdout, "user", recall.TopMatches(train, user, n, scorer))
	},
}

func init() {
	similarCommand.Flags().Int64P("user", "u", 0, "user id")
	similarCommand.Flags().IntP("n", "n", 25, "number of similar users")
	_ = similarCommand.MarkFlagRequired("user")
}

// configuredMetric 返回第一个 recall.u2i 节点配置的相似度度量。
func configuredMetric(cfg *pipeline.Config) string {
	for _, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "recall.u2i" {
			return conv.ConfigGet(nc.Config, "metric", "")
		}
	}
	return ""
}
