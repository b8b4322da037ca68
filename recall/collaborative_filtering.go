package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/pipeline"
	"github.com/rushteam/cfrec/pkg/utils"
	"github.com/rushteam/cfrec/similarity"
	"github.com/rushteam/cfrec/store"
)

// UserBasedCF 是基于用户的协同过滤（User-based Collaborative Filtering, User-CF）。
//
// 核心思想："兴趣相似的用户，喜欢相似的物品"
//
// 算法流程：
//  1. 计算目标用户与其他每个用户的相似度，跳过相似度 <= 0 的用户
//  2. 对这些用户评过、而目标用户未评过（或评分为 0）的物品累加
//     totals[i] += rating * sim，simSum[i] += sim
//  3. 预测分 = totals[i] / simSum[i]（相似度加权平均评分）
//  4. 按 (预测分, 物品ID) 升序排序后反转，截取前 TopN 个
//
// 与很多 u2i 实现不同，这里不截断 TopK 相似用户：所有正相似用户都参与加权。
type UserBasedCF struct {
	Store *store.RatingStore

	// Similarity 相似度策略，为 nil 时使用欧氏距离相似度
	Similarity similarity.Scorer

	// TopN 最终返回的物品数，<= 0 时取默认值 25
	TopN int

	// Catalog 可选：用于给结果补充物品属性（供过滤表达式使用）
	Catalog *store.ItemCatalog

	// MaxConcurrent 并发计算相似度的 goroutine 数，<= 1 表示串行
	MaxConcurrent int
}

func (r *UserBasedCF) Name() string        { return "recall.u2i" }
func (r *UserBasedCF) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 pipeline.Node 接口，直接调用 Recall
func (r *UserBasedCF) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *UserBasedCF) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil || rctx == nil {
		return nil, nil
	}
	res, err := r.recommend(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}

	metric := similarity.OrDefault(r.Similarity).Name()
	out := make([]*core.Item, 0, len(res.ranked))
	for _, s := range res.ranked {
		it := core.NewItem(s.ID)
		it.Score = s.Score
		if attrs, ok := r.Catalog.Get(s.ID); ok {
			it.Attributes = attrs
		}
		it.PutLabel(utils.LabelRecallSource, utils.NewLabel("u2i", "recall"))
		it.PutLabel(utils.LabelMetric, utils.NewLabel(metric, "recall"))
		it.PutLabel(utils.LabelNeighbors, utils.NewLabel(strconv.Itoa(res.neighbors[s.ID]), "recall"))
		out = append(out, it)
	}
	rctx.PutLabel(utils.LabelMetric, utils.NewLabel(metric, "recall"))
	rctx.PutLabel(utils.LabelCandidates, utils.NewLabel(strconv.Itoa(len(out)), "recall"))
	return out, nil
}

// Recommend 为 user 生成推荐列表。
func (r *UserBasedCF) Recommend(ctx context.Context, user core.UserID) (core.Recommendation, error) {
	if r.Store == nil {
		return nil, nil
	}
	res, err := r.recommend(ctx, user)
	if err != nil {
		return nil, err
	}
	return res.ranked, nil
}

type aggregation struct {
	ranked core.Recommendation
	// neighbors[item] 是给该物品贡献了评分的正相似用户数
	neighbors map[core.ItemID]int
}

func (r *UserBasedCF) recommend(ctx context.Context, user core.UserID) (*aggregation, error) {
	scorer := similarity.OrDefault(r.Similarity)
	users := r.Store.Users()
	sims, err := fanoutScores(ctx, r.Store, user, users, scorer, r.MaxConcurrent)
	if err != nil {
		return nil, err
	}
	topN := r.TopN
	if topN <= 0 {
		topN = core.Defaults.DefaultTopN()
	}
	return aggregate(r.Store, user, users, sims, topN), nil
}

// aggregate 按 users 顺序串行累加，sims 与 users 按下标对应。
func aggregate(
	s *store.RatingStore,
	user core.UserID,
	users []core.UserID,
	sims []float64,
	topN int,
) *aggregation {
	target := s.User(user)
	totals := make(map[core.ItemID]float64)
	simSums := make(map[core.ItemID]float64)
	neighbors := make(map[core.ItemID]int)

	for i, other := range users {
		if other == user {
			continue
		}
		sim := sims[i]
		// 非正相似度既不贡献分子也不进入分母
		if sim <= 0 {
			continue
		}
		s.User(other).ForEach(func(item core.ItemID, v core.AttributeVector) {
			// 已存的 0 分与未评分等价
			if target.Has(item) && target.Rating(item) != 0 {
				return
			}
			totals[item] += v.Rating() * sim
			simSums[item] += sim
			neighbors[item]++
		})
	}

	rankings := make([]core.Scored, 0, len(totals))
	for item, total := range totals {
		rankings = append(rankings, core.Scored{Score: total / simSums[item], ID: item})
	}
	return &aggregation{
		ranked:    core.RankDescending(rankings, topN),
		neighbors: neighbors,
	}
}

// Recommend 用给定的相似度（nil 为欧氏距离）串行地为 user 生成最多 25 个推荐。
// 对相同输入多次调用得到相同结果。
func Recommend(s *store.RatingStore, user core.UserID, scorer similarity.Scorer) core.Recommendation {
	cf := &UserBasedCF{Store: s, Similarity: scorer}
	rec, _ := cf.Recommend(context.Background(), user)
	return rec
}

var (
	_ Source        = (*UserBasedCF)(nil)
	_ pipeline.Node = (*UserBasedCF)(nil)
)
