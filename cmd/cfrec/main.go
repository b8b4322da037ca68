package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	_ "github.com/rushteam/cfrec/config/builders"
	"github.com/rushteam/cfrec/pkg/log"
)

var rootCommand = &cobra.Command{
	Use:   "cfrec",
	Short: "User-based collaborative filtering recommender.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		return log.SetLogger(debug)
	},
	SilenceUsage: true,
}

func init() {
	addGlobalFlags(rootCommand.PersistentFlags())
	rootCommand.AddCommand(recommendCommand, evaluateCommand, similarCommand, snapshotCommand)
}

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.Bool("debug", false, "use debug log mode")
	flags.StringP("config", "c", "", "configuration file path")
	flags.StringP("data", "d", "", "ratings csv path (overrides dataset.path)")
	flags.String("metric", "", "similarity metric: euclidean or pearson (overrides recall.u2i nodes)")
	flags.Bool("shuffle", true, "shuffle rows before partitioning")
	flags.Uint64("seed", 0, "seed used to shuffle rows")
	flags.Float64("train-ratio", 0, "fraction of rows used for training (default 2/3)")
	flags.Int("max-concurrent", 0, "number of goroutines computing similarities")
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
