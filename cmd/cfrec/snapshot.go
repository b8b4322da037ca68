package main

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/rushteam/cfrec/pipeline"
	"github.com/rushteam/cfrec/store"
)

var snapshotCommand = &cobra.Command{
	Use:   "snapshot",
	Short: "Save or inspect the training set snapshot in Redis.",
}

var snapshotSaveCommand = &cobra.Command{
	Use:   "save",
	Short: "Partition the dataset and save the training set to Redis.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		snap, err := openSnapshot(cmd, cfg)
		if err != nil {
			return err
		}
		defer snap.Close()
		split, err := loadSplit(cfg)
		if err != nil {
			return err
		}
		if err := snap.Save(cmd.Context(), split.Train, split.Catalog); err != nil {
			return err
		}
		fmt.Printf("saved %d users, %d ratings, %d items\n",
			split.Train.Len(), split.Train.NumRatings(), split.Catalog.Len())
		return nil
	},
}

var snapshotInfoCommand = &cobra.Command{
	Use:   "info",
	Short: "Load the snapshot from Redis and print its size.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		snap, err := openSnapshot(cmd, cfg)
		if err != nil {
			return err
		}
		defer snap.Close()
		train, catalog, err := snap.Load(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("users: %d\nratings: %d\nitems: %d\n", train.Len(), train.NumRatings(), catalog.Len())
		return nil
	},
}

func openSnapshot(cmd *cobra.Command, cfg *pipeline.Config) (*store.RedisRatingStore, error) {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Snapshot.Addr = addr
	}
	if prefix, _ := cmd.Flags().GetString("prefix"); prefix != "" {
		cfg.Snapshot.Prefix = prefix
	}
	if cfg.Snapshot.Addr == "" {
		return nil, errors.New("redis address is required (use --addr or snapshot.addr)")
	}
	return store.NewRedisRatingStore(cfg.Snapshot.Addr, cfg.Snapshot.DB, cfg.Snapshot.Prefix)
}

func init() {
	snapshotCommand.PersistentFlags().String("addr", "", "redis address (overrides snapshot.addr)")
	snapshotCommand.PersistentFlags().String("prefix", "", "redis key prefix (overrides snapshot.prefix)")
	snapshotCommand.AddCommand(snapshotSaveCommand, snapshotInfoCommand)
}
