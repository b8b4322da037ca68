package recall

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/pkg/utils"
	"github.com/rushteam/cfrec/similarity"
	"github.com/rushteam/cfrec/store"
)

func set(s *store.RatingStore, user core.UserID, item core.ItemID, rating float64) {
	s.Set(user, item, core.NewAttributeVector(rating, 30, 1, 2))
}

func TestRecommend_SingleNeighbor(t *testing.T) {
	s := store.NewRatingStore()
	set(s, 1, 10, 5)
	set(s, 2, 10, 5)
	set(s, 2, 11, 4)

	rec := Recommend(s, 1, nil)
	assert.Equal(t, core.Recommendation{{Score: 4.0, ID: 11}}, rec)
}

func TestRecommend_WeightedMean(t *testing.T) {
	s := store.NewRatingStore()
	set(s, 1, 10, 5)
	// sim = 1 / (1 + 1) = 0.5
	set(s, 2, 10, 4)
	set(s, 2, 11, 3)
	// sim = 1
	set(s, 3, 10, 5)
	set(s, 3, 11, 5)
	set(s, 3, 12, 2)

	rec := Recommend(s, 1, similarity.Euclidean{})
	require.Len(t, rec, 2)
	assert.Equal(t, core.ItemID(11), rec[0].ID)
	assert.InDelta(t, (3*0.5+5*1.0)/1.5, rec[0].Score, 1e-12)
	assert.Equal(t, core.Scored{Score: 2, ID: 12}, rec[1])
}

func TestRecommend_ZeroRatingCountsAsUnrated(t *testing.T) {
	s := store.NewRatingStore()
	set(s, 1, 10, 5)
	set(s, 1, 11, 0)
	set(s, 2, 10, 5)
	set(s, 2, 11, 3)
	set(s, 2, 12, 1)

	rec := Recommend(s, 1, nil)
	assert.Equal(t, []int64{11, 12}, rec.IDs())
}

func TestRecommend_SkipsNonPositiveSimilarity(t *testing.T) {
	s := store.NewRatingStore()
	set(s, 1, 10, 1)
	set(s, 1, 11, 2)
	set(s, 1, 12, 3)
	// 正相关
	set(s, 2, 10, 2)
	set(s, 2, 11, 3)
	set(s, 2, 12, 4)
	set(s, 2, 20, 5)
	// 负相关：不能影响 20 的分母，也不能引入 21
	set(s, 3, 10, 3)
	set(s, 3, 11, 2)
	set(s, 3, 12, 1)
	set(s, 3, 20, 1)
	set(s, 3, 21, 5)
	// 零方差：相似度 0
	set(s, 4, 10, 4)
	set(s, 4, 11, 4)
	set(s, 4, 12, 4)
	set(s, 4, 22, 5)

	rec := Recommend(s, 1, similarity.Pearson{})
	assert.Equal(t, core.Recommendation{{Score: 5, ID: 20}}, rec)
}

func TestRecommend_Empty(t *testing.T) {
	s := store.NewRatingStore()
	set(s, 1, 10, 5)
	set(s, 1, 11, 4)
	set(s, 2, 10, 3)
	set(s, 2, 11, 2)
	// 所有候选都已评分
	assert.Empty(t, Recommend(s, 1, nil))

	// 没有共同物品的用户相似度为 0
	set(s, 3, 99, 5)
	assert.Empty(t, Recommend(s, 3, nil))

	// 目标用户不在存储中
	assert.Empty(t, Recommend(s, 404, nil))
	assert.False(t, s.HasUser(404))
}

func TestRecommend_TieBreakAndTruncate(t *testing.T) {
	s := store.NewRatingStore()
	set(s, 1, 1, 3)
	set(s, 2, 1, 3)
	for item := core.ItemID(100); item < 130; item++ {
		set(s, 2, item, 4)
	}
	set(s, 2, 500, 5)

	rec := Recommend(s, 1, nil)
	require.Len(t, rec, core.Defaults.DefaultTopN())
	assert.Equal(t, core.Scored{Score: 5, ID: 500}, rec[0])
	// 分数相同，ID 较大的在前
	assert.Equal(t, core.ItemID(129), rec[1].ID)
	assert.Equal(t, core.ItemID(128), rec[2].ID)
	assert.Equal(t, core.ItemID(106), rec[24].ID)
	for i := 1; i < len(rec); i++ {
		assert.GreaterOrEqual(t, rec[i-1].Score, rec[i].Score)
	}
}

func randomStore(seed int64, users, items int) *store.RatingStore {
	rng := rand.New(rand.NewSource(seed))
	s := store.NewRatingStore()
	for u := 0; u < users; u++ {
		for i := 0; i < items; i++ {
			if rng.Float64() < 0.3 {
				s.Set(core.UserID(u), core.ItemID(i), core.NewAttributeVector(float64(rng.Intn(6))))
			}
		}
	}
	return s
}

func TestRecommend_Properties(t *testing.T) {
	s := randomStore(42, 60, 80)
	for _, scorer := range []similarity.Scorer{similarity.Euclidean{}, similarity.Pearson{}} {
		for _, user := range s.Users() {
			rec := Recommend(s, user, scorer)
			assert.LessOrEqual(t, len(rec), 25)
			for i, r := range rec {
				if i > 0 {
					assert.GreaterOrEqual(t, rec[i-1].Score, r.Score)
				}
				assert.Zero(t, s.User(user).Rating(r.ID), "user %d already rated %d", user, r.ID)
			}
			// 纯函数：重复调用结果一致
			assert.Equal(t, rec, Recommend(s, user, scorer))
		}
	}
}

func TestUserBasedCF_ConcurrentMatchesSequential(t *testing.T) {
	ctx := context.Background()
	s := randomStore(7, 120, 60)
	for _, scorer := range []similarity.Scorer{similarity.Euclidean{}, similarity.Pearson{}} {
		seq := &UserBasedCF{Store: s, Similarity: scorer}
		par := &UserBasedCF{Store: s, Similarity: scorer, MaxConcurrent: 8}
		for _, user := range s.Users()[:20] {
			want, err := seq.Recommend(ctx, user)
			require.NoError(t, err)
			got, err := par.Recommend(ctx, user)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}
}

func TestUserBasedCF_Canceled(t *testing.T) {
	s := randomStore(1, 10, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, n := range []int{0, 4} {
		cf := &UserBasedCF{Store: s, MaxConcurrent: n}
		_, err := cf.Recommend(ctx, 0)
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestUserBasedCF_Recall(t *testing.T) {
	s := store.NewRatingStore()
	set(s, 1, 10, 5)
	set(s, 2, 10, 5)
	set(s, 2, 11, 4)
	set(s, 3, 10, 4)
	set(s, 3, 11, 2)
	set(s, 3, 12, 3)
	catalog := store.NewItemCatalog()
	catalog.Set(11, []float64{7, 1})

	cf := &UserBasedCF{Store: s, Catalog: catalog, TopN: 1}
	rctx := &core.RecommendContext{UserID: 1}
	items, err := cf.Process(context.Background(), rctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	it := items[0]
	assert.Equal(t, core.ItemID(11), it.ID)
	// (4*1 + 2*0.5) / 1.5
	assert.InDelta(t, 5/1.5, it.Score, 1e-12)
	assert.Equal(t, []float64{7, 1}, it.Attributes)
	assert.Equal(t, "u2i", it.Labels[utils.LabelRecallSource].Value)
	assert.Equal(t, similarity.MetricEuclidean, it.Labels[utils.LabelMetric].Value)
	assert.Equal(t, "2", it.Labels[utils.LabelNeighbors].Value)
	assert.Equal(t, similarity.MetricEuclidean, rctx.Labels[utils.LabelMetric].Value)
	assert.Equal(t, "1", rctx.Labels[utils.LabelCandidates].Value)

	items, err = (&UserBasedCF{}).Recall(context.Background(), &core.RecommendContext{UserID: 1})
	assert.NoError(t, err)
	assert.Nil(t, items)
}
