package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/pkg/log"
	"github.com/rushteam/cfrec/pkg/utils"
)

func init() {
	log.CloseLogger()
}

func items(scores map[core.ItemID]float64, order ...core.ItemID) []*core.Item {
	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		it := core.NewItem(id)
		it.Score = scores[id]
		out = append(out, it)
	}
	return out
}

func ids(items []*core.Item) []core.ItemID {
	out := make([]core.ItemID, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

type failingFilter struct{}

func (failingFilter) Name() string { return "filter.failing" }

func (failingFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Item) (bool, error) {
	return true, errors.New("boom")
}

func TestBlacklistFilter(t *testing.T) {
	f := NewBlacklistFilter([]core.ItemID{2, 4})
	ctx := context.Background()

	ok, err := f.ShouldFilter(ctx, nil, core.NewItem(2))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.ShouldFilter(ctx, nil, core.NewItem(3))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExprFilter(t *testing.T) {
	f, err := NewExprFilter("item.score >= 3.5")
	require.NoError(t, err)

	in := items(map[core.ItemID]float64{1: 4.5, 2: 2.0, 3: 3.5}, 1, 2, 3)
	node := &FilterNode{Filters: []Filter{f}}
	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: 7}, in)
	require.NoError(t, err)
	assert.Equal(t, []core.ItemID{1, 3}, ids(out))

	lbl, ok := in[1].Labels[utils.LabelFiltered]
	require.True(t, ok)
	assert.Equal(t, "filter.expr", lbl.Source)
}

func TestMinScoreFilter(t *testing.T) {
	in := items(map[core.ItemID]float64{1: 4.5, 2: 2.0, 3: 3.0}, 1, 2, 3)
	node := &FilterNode{Filters: []Filter{&MinScoreFilter{Min: 3}}}
	out, err := node.Process(context.Background(), nil, in)
	require.NoError(t, err)
	assert.Equal(t, []core.ItemID{1, 3}, ids(out))
	assert.Equal(t, "filter.min_score", in[1].Labels[utils.LabelFiltered].Source)
}

func TestNewExprFilter_Invalid(t *testing.T) {
	_, err := NewExprFilter("item.score >=")
	assert.Error(t, err)
}

func TestFilterNode_KeepsOrderAndSkipsErrors(t *testing.T) {
	in := items(map[core.ItemID]float64{5: 1, 3: 2, 9: 3}, 5, 3, 9)
	node := &FilterNode{Filters: []Filter{failingFilter{}, NewBlacklistFilter([]core.ItemID{3})}}

	out, err := node.Process(context.Background(), nil, in)
	require.NoError(t, err)
	assert.Equal(t, []core.ItemID{5, 9}, ids(out))
}

func TestFilterNode_NoFilters(t *testing.T) {
	in := items(nil, 1, 2)
	out, err := (&FilterNode{}).Process(context.Background(), nil, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
