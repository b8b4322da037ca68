package main

import (
	"context"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rushteam/cfrec/config"
	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/dataset"
	"github.com/rushteam/cfrec/pipeline"
	"github.com/rushteam/cfrec/pkg/log"
	"github.com/rushteam/cfrec/store"
)

// loadConfig 读取配置文件（可选），再用命令行参数覆盖。
func loadConfig(cmd *cobra.Command) (*pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		log.Logger().Info("load config", zap.String("config", path))
		var err error
		if cfg, err = pipeline.LoadFromYAML(path); err != nil {
			return nil, errors.Annotate(err, "load config")
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Dataset.Path, _ = flags.GetString("data")
	}
	if flags.Changed("shuffle") {
		cfg.Dataset.Shuffle, _ = flags.GetBool("shuffle")
	}
	if flags.Changed("seed") {
		cfg.Dataset.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("train-ratio") {
		cfg.Dataset.TrainRatio, _ = flags.GetFloat64("train-ratio")
	}
	if flags.Changed("max-concurrent") {
		cfg.Evaluation.MaxConcurrent, _ = flags.GetInt("max-concurrent")
	}
	metric, _ := flags.GetString("metric")
	for i, nc := range cfg.Pipeline.Nodes {
		if nc.Type != "recall.u2i" {
			continue
		}
		if nc.Config == nil {
			nc.Config = map[string]any{}
		}
		if metric != "" {
			nc.Config["metric"] = metric
		}
		if _, ok := nc.Config["max_concurrent"]; !ok && cfg.Evaluation.MaxConcurrent > 0 {
			nc.Config["max_concurrent"] = cfg.Evaluation.MaxConcurrent
		}
		cfg.Pipeline.Nodes[i] = nc
	}

	if err := config.ValidatePipelineConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSplit 读取评分表并切分为训练集/测试集。
func loadSplit(cfg *pipeline.Config) (*dataset.Split, error) {
	if cfg.Dataset.Path == "" {
		return nil, errors.New("dataset path is required (use --data or dataset.path)")
	}
	t, err := dataset.ReadFile(cfg.Dataset.Path, dataset.WithImpute(cfg.Dataset.ShouldImpute()))
	if err != nil {
		return nil, err
	}
	if cfg.Dataset.Shuffle {
		t.Shuffle(cfg.Dataset.Seed)
	}
	return dataset.Partition(t, cfg.Dataset.TrainRatio)
}

// loadTrain 优先从 Redis 快照加载训练集，快照不存在时回退到 csv。
func loadTrain(ctx context.Context, cfg *pipeline.Config) (*store.RatingStore, *store.ItemCatalog, error) {
	if cfg.Snapshot.Addr != "" {
		snap, err := store.NewRedisRatingStore(cfg.Snapshot.Addr, cfg.Snapshot.DB, cfg.Snapshot.Prefix)
		if err != nil {
			return nil, nil, err
		}
		defer snap.Close()
		train, catalog, err := snap.Load(ctx)
		if err == nil {
			return train, catalog, nil
		}
		if !core.IsStoreNotFound(err) {
			return nil, nil, err
		}
		log.Logger().Info("snapshot not found, fall back to dataset", zap.String("addr", cfg.Snapshot.Addr))
	}
	split, err := loadSplit(cfg)
	if err != nil {
		return nil, nil, err
	}
	return split.Train, split.Catalog, nil
}

func buildPipeline(cfg *pipeline.Config, train *store.RatingStore, catalog *store.ItemCatalog) (*pipeline.Pipeline, error) {
	return cfg.BuildPipeline(config.DefaultFactory(), &pipeline.Resources{Train: train, Catalog: catalog})
}
