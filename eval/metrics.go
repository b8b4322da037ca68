// Package eval 用留出的测试集评估推荐列表。
//
// 注意：Precision 与 Recall 沿用既有实验的计算口径，并不是教科书定义：
//   - Precision 对预测分与真实评分完全相等的命中额外 +2
//   - Recall 的分子统计推荐物品在测试集中出现的次数，不区分是否为好评物品
//
// 分母为 0（空推荐列表 / 没有好评物品）时返回 0。
package eval

import (
	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/store"
)

// exactMatchBonus 是预测分与真实评分完全一致时额外计入的命中数。
const exactMatchBonus = 2

// Precision 计算 user 的推荐列表在测试集上的 precision。
// 每个推荐物品若出现在用户的测试记录中计 1，预测分与真实评分相等再计 2，
// 总数除以推荐列表长度。空列表返回 0。
func Precision(user core.UserID, recs core.Recommendation, test *store.RatingStore) float64 {
	all := len(recs)
	if all == 0 {
		return 0
	}
	actual := test.User(user)
	hits := 0
	for _, r := range recs {
		v, ok := actual.Get(r.ID)
		if !ok {
			continue
		}
		hits++
		if v.Rating() == r.Score {
			hits += exactMatchBonus
		}
	}
	return float64(hits) / float64(all)
}

// Recall 使用默认好评阈值（4）计算 recall。
func Recall(user core.UserID, recs core.Recommendation, test *store.RatingStore) float64 {
	return RecallWithThreshold(user, recs, test, core.Defaults.DefaultGoodRating())
}

// RecallWithThreshold 计算 recall：分母是用户测试记录中评分 >= goodRating 的物品数，
// 分子是测试记录中每个物品在推荐列表里出现的次数之和。没有好评物品时返回 0。
func RecallWithThreshold(user core.UserID, recs core.Recommendation, test *store.RatingStore, goodRating float64) float64 {
	hits := 0
	goodItems := 0
	test.User(user).ForEach(func(item core.ItemID, v core.AttributeVector) {
		if v.Rating() >= goodRating {
			goodItems++
		}
		for _, r := range recs {
			if r.ID == item {
				hits++
			}
		}
	})
	if goodItems == 0 {
		return 0
	}
	return float64(hits) / float64(goodItems)
}
