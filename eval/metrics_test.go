package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/store"
)

func testStore() *store.RatingStore {
	s := store.NewRatingStore()
	s.Set(15, 1, core.NewAttributeVector(5))
	s.Set(15, 2, core.NewAttributeVector(4))
	s.Set(15, 3, core.NewAttributeVector(2))
	s.Set(15, 4, core.NewAttributeVector(4.5))
	s.Set(16, 1, core.NewAttributeVector(1))
	s.Set(16, 2, core.NewAttributeVector(3))
	return s
}

func TestPrecision(t *testing.T) {
	test := testStore()
	tests := []struct {
		name string
		recs core.Recommendation
		want float64
	}{
		{
			name: "hits without exact score",
			recs: core.Recommendation{{Score: 4.2, ID: 1}, {Score: 3.1, ID: 2}, {Score: 3, ID: 9}, {Score: 1, ID: 8}},
			want: 2.0 / 4,
		},
		{
			name: "exact score adds bonus",
			recs: core.Recommendation{{Score: 5, ID: 1}, {Score: 3, ID: 3}},
			want: (3.0 + 1.0) / 2,
		},
		{
			name: "no hits",
			recs: core.Recommendation{{Score: 5, ID: 100}},
			want: 0,
		},
		{
			name: "empty list is neutral",
			recs: nil,
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Precision(15, tt.recs, test))
		})
	}
	// 测试集中没有该用户
	assert.Equal(t, 0.0, Precision(404, core.Recommendation{{Score: 5, ID: 1}}, test))
}

func TestRecall(t *testing.T) {
	test := testStore()
	// 好评物品：1, 2, 4
	recs := core.Recommendation{{Score: 3, ID: 3}, {Score: 4, ID: 1}, {Score: 2, ID: 77}}
	// 命中 1 和 3（3 不是好评物品也计入）
	assert.Equal(t, 2.0/3, Recall(15, recs, test))

	// 推荐列表里重复出现的物品会被重复计数
	dup := core.Recommendation{{Score: 3, ID: 1}, {Score: 2, ID: 1}}
	assert.Equal(t, 2.0/3, Recall(15, dup, test))

	assert.Equal(t, 0.0, Recall(15, nil, test))

	// 用户 16 没有好评物品
	assert.Equal(t, 0.0, Recall(16, core.Recommendation{{Score: 1, ID: 1}}, test))
	// 未知用户
	assert.Equal(t, 0.0, Recall(404, recs, test))
}

func TestRecallWithThreshold(t *testing.T) {
	test := testStore()
	recs := core.Recommendation{{Score: 1, ID: 2}}
	// 阈值 3：用户 16 的好评物品只有 2
	assert.Equal(t, 1.0, RecallWithThreshold(16, recs, test, 3))
	// 阈值 4.5：用户 15 的好评物品为 1, 4
	assert.Equal(t, 0.5, RecallWithThreshold(15, recs, test, 4.5))
}
