// Package cfrec 是一个基于用户的协同过滤推荐工具包。
//
// 设计要点：
// - Store-first: 评分以 用户 -> 物品 -> 属性向量 的嵌套结构保存，属性第 0 位是评分
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank）
// - Labels-first: 召回来源、相似度度量、邻居数以 label 形式透传，便于 explain / 观测
package cfrec

import (
	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/eval"
	"github.com/rushteam/cfrec/pipeline"
	"github.com/rushteam/cfrec/recall"
	"github.com/rushteam/cfrec/similarity"
	"github.com/rushteam/cfrec/store"
)

// 轻量 facade：便于用户直接 import "cfrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

type RatingStore = store.RatingStore
type Recommendation = core.Recommendation
type Scorer = similarity.Scorer

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)

// Recommend 为 user 生成最多 25 个推荐，scorer 为 nil 时使用欧氏距离相似度。
func Recommend(s *RatingStore, user core.UserID, scorer Scorer) Recommendation {
	return recall.Recommend(s, user, scorer)
}

// Precision 见 eval.Precision。
func Precision(user core.UserID, recs Recommendation, test *RatingStore) float64 {
	return eval.Precision(user, recs, test)
}

// Recall 见 eval.Recall。
func Recall(user core.UserID, recs Recommendation, test *RatingStore) float64 {
	return eval.Recall(user, recs, test)
}
