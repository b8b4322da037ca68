package pipeline

import (
	"fmt"
	"os"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/store"
)

// Config 是一次实验的 YAML 配置。
//
//	dataset:
//	  path: datasets/LDOS-CoMoDa.csv
//	  train_ratio: 0.6667
//	  seed: 42
//	  shuffle: true
//	  impute: true
//	snapshot:
//	  addr: 127.0.0.1:6379
//	  prefix: comoda
//	evaluation:
//	  good_rating: 4
//	  max_concurrent: 8
//	pipeline:
//	  name: u2i
//	  nodes:
//	    - type: recall.u2i
//	      config: {metric: euclidean, top_n: 25}
//	    - type: filter.expr
//	      config: {expr: "item.score >= 3"}
type Config struct {
	Dataset    DatasetConfig    `yaml:"dataset"`
	Snapshot   SnapshotConfig   `yaml:"snapshot"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Pipeline   struct {
		Name  string       `yaml:"name"`
		Nodes []NodeConfig `yaml:"nodes"`
	} `yaml:"pipeline"`
}

// DatasetConfig 描述评分表的读取与切分。
// 默认在切分前用 Seed 打乱行顺序（Seed 默认 0，结果可复现）；shuffle: false 时按文件顺序切分。
type DatasetConfig struct {
	Path       string  `yaml:"path"`
	TrainRatio float64 `yaml:"train_ratio"`
	Shuffle    bool    `yaml:"shuffle"`
	Seed       uint64  `yaml:"seed"`
	Impute     *bool   `yaml:"impute"`
}

// ShouldImpute 未配置时默认填充缺失值。
func (c DatasetConfig) ShouldImpute() bool {
	return c.Impute == nil || *c.Impute
}

// SnapshotConfig 描述 Redis 快照位置，Addr 为空表示不使用快照。
type SnapshotConfig struct {
	Addr   string `yaml:"addr"`
	DB     int    `yaml:"db"`
	Prefix string `yaml:"prefix"`
}

// EvaluationConfig 描述离线评估参数。
type EvaluationConfig struct {
	GoodRating    float64 `yaml:"good_rating"`
	MaxConcurrent int     `yaml:"max_concurrent"`
}

// NodeConfig 是单个 Node 的配置。
type NodeConfig struct {
	Type   string         `yaml:"type"`   // recall.u2i / filter.expr / rerank.topn 等
	Config map[string]any `yaml:"config"` // Node 特定配置
}

// DefaultConfig 返回只包含一个 u2i 召回节点的配置。
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Dataset.TrainRatio = core.Defaults.DefaultTrainRatio()
	cfg.Dataset.Shuffle = true
	cfg.Evaluation.GoodRating = core.Defaults.DefaultGoodRating()
	cfg.Pipeline.Name = "u2i"
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "recall.u2i", Config: map[string]any{}}}
	return cfg
}

// LoadFromYAML 从 YAML 文件加载配置，未出现的字段保留 DefaultConfig 中的值。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotate(err, "read file")
	}
	return ParseYAML(data)
}

// ParseYAML 解析 YAML 配置。
func ParseYAML(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Annotate(err, "parse yaml")
	}
	return cfg, nil
}

// Resources 是构建 Node 时可用的数据。
type Resources struct {
	Train   *store.RatingStore
	Catalog *store.ItemCatalog
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(cfg map[string]any, res *Resources) (Node, error)

// BuildPipeline 根据配置构建 Pipeline。
func (c *Config) BuildPipeline(factory *NodeFactory, res *Resources) (*Pipeline, error) {
	nodes := make([]Node, 0, len(c.Pipeline.Nodes))
	for _, nc := range c.Pipeline.Nodes {
		node, err := factory.Build(nc.Type, nc.Config, res)
		if err != nil {
			return nil, fmt.Errorf("build node %s: %w", nc.Type, err)
		}
		nodes = append(nodes, node)
	}
	return &Pipeline{Name: c.Pipeline.Name, Nodes: nodes}, nil
}

// NodeFactory 用于根据配置构建 Node 实例。
type NodeFactory struct {
	builders map[string]NodeBuilder
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{
		builders: make(map[string]NodeBuilder),
	}
}

// Register 注册 Node 构建器。
func (f *NodeFactory) Register(nodeType string, builder NodeBuilder) {
	f.builders[nodeType] = builder
}

// Build 根据类型和配置构建 Node。
func (f *NodeFactory) Build(nodeType string, cfg map[string]any, res *Resources) (Node, error) {
	builder, ok := f.builders[nodeType]
	if !ok {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput,
			fmt.Sprintf("unknown node type: %s", nodeType))
	}
	if res == nil {
		res = &Resources{}
	}
	return builder(cfg, res)
}
