package builders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cfrec/config"
	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/filter"
	"github.com/rushteam/cfrec/pipeline"
	"github.com/rushteam/cfrec/pkg/log"
	"github.com/rushteam/cfrec/recall"
	"github.com/rushteam/cfrec/similarity"
	"github.com/rushteam/cfrec/store"
)

func init() {
	log.CloseLogger()
}

func trainStore() *store.RatingStore {
	s := store.NewRatingStore()
	s.Set(1, 10, core.NewAttributeVector(5))
	s.Set(2, 10, core.NewAttributeVector(5))
	s.Set(2, 11, core.NewAttributeVector(4))
	s.Set(2, 12, core.NewAttributeVector(2))
	s.Set(2, 13, core.NewAttributeVector(3))
	return s
}

func TestSupportedTypes(t *testing.T) {
	assert.Subset(t, config.SupportedTypes(),
		[]string{"recall.u2i", "filter.expr", "filter.blacklist", "filter.min_score", "rerank.topn"})
}

func TestBuildU2INode(t *testing.T) {
	res := &pipeline.Resources{Train: trainStore()}
	node, err := BuildU2INode(map[string]any{"metric": "pearson", "top_n": 10, "max_concurrent": 4}, res)
	require.NoError(t, err)

	u2i, ok := node.(*recall.UserBasedCF)
	require.True(t, ok)
	assert.Equal(t, similarity.Pearson{}, u2i.Similarity)
	assert.Equal(t, 10, u2i.TopN)
	assert.Equal(t, 4, u2i.MaxConcurrent)
}

func TestBuildU2INode_Errors(t *testing.T) {
	_, err := BuildU2INode(map[string]any{}, &pipeline.Resources{})
	assert.Error(t, err)

	_, err = BuildU2INode(map[string]any{"metric": "cosine"}, &pipeline.Resources{Train: trainStore()})
	assert.ErrorIs(t, err, similarity.ErrUnknownMetric)
}

func TestBuildExprFilterNode_Errors(t *testing.T) {
	_, err := BuildExprFilterNode(map[string]any{}, nil)
	assert.Error(t, err)

	_, err = BuildExprFilterNode(map[string]any{"expr": "item.score >>"}, nil)
	assert.Error(t, err)
}

func TestConfiguredPipeline(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(`
pipeline:
  name: u2i-test
  nodes:
    - type: recall.u2i
      config:
        metric: euclidean
    - type: filter.blacklist
      config:
        item_ids: [12]
    - type: filter.expr
      config:
        expr: "item.score >= 3.0"
    - type: rerank.topn
      config:
        n: 1
`))
	require.NoError(t, err)
	require.NoError(t, config.ValidatePipelineConfig(cfg))

	p, err := cfg.BuildPipeline(config.DefaultFactory(), &pipeline.Resources{Train: trainStore()})
	require.NoError(t, err)
	require.Len(t, p.Nodes, 4)

	rec, err := p.Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, core.Recommendation{{Score: 4, ID: 11}}, rec)
}

func TestBuildMinScoreNode(t *testing.T) {
	p, err := pipeline.ParseYAML([]byte(`
pipeline:
  nodes:
    - type: recall.u2i
    - type: filter.min_score
      config:
        min_score: 3
`))
	require.NoError(t, err)
	pl, err := p.BuildPipeline(config.DefaultFactory(), &pipeline.Resources{Train: trainStore()})
	require.NoError(t, err)
	rec, err := pl.Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, core.Recommendation{{Score: 4, ID: 11}, {Score: 3, ID: 13}}, rec)

	node, err := BuildMinScoreNode(map[string]any{"min_score": 2.5}, nil)
	require.NoError(t, err)
	fn := node.(*filter.FilterNode)
	assert.Equal(t, 2.5, fn.Filters[0].(*filter.MinScoreFilter).Min)
}

func TestValidatePipelineConfig_Unsupported(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, pipeline.NodeConfig{Type: "rank.lr"})
	assert.Error(t, config.ValidatePipelineConfig(cfg))

	cfg.Pipeline.Nodes = nil
	assert.Error(t, config.ValidatePipelineConfig(cfg))
}
