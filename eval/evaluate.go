package eval

import (
	"context"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/store"
)

// Recommender 为单个用户生成推荐列表，recall.UserBasedCF 实现了此接口。
type Recommender interface {
	Recommend(ctx context.Context, user core.UserID) (core.Recommendation, error)
}

// UserScore 是单个用户的评估结果。
type UserScore struct {
	UserID    core.UserID
	Items     int // 推荐列表长度
	Precision float64
	Recall    float64
}

// Report 是一次批量评估的汇总。
type Report struct {
	Users     []UserScore
	Precision float64 // 所有被评估用户的平均 precision
	Recall    float64 // 所有被评估用户的平均 recall
}

// Evaluator 对测试集中的用户批量评估。
type Evaluator struct {
	Recommender Recommender

	// Train 可选：不为 nil 时，默认只评估同时出现在训练集中的测试用户
	Train *store.RatingStore

	// GoodRating 好评阈值，<= 0 时取默认值 4
	GoodRating float64

	// MaxConcurrent 并发评估的用户数，<= 1 表示串行
	MaxConcurrent int

	// OnUser 可选：每个用户评估完成后回调，可能被并发调用
	OnUser func(UserScore)
}

// EvaluateUser 评估单个用户。
func (e *Evaluator) EvaluateUser(ctx context.Context, user core.UserID, test *store.RatingStore) (UserScore, error) {
	recs, err := e.Recommender.Recommend(ctx, user)
	if err != nil {
		return UserScore{}, err
	}
	return UserScore{
		UserID:    user,
		Items:     len(recs),
		Precision: Precision(user, recs, test),
		Recall:    RecallWithThreshold(user, recs, test, e.goodRating()),
	}, nil
}

// Users 返回默认被评估的用户：测试集中（Train 不为 nil 时还需出现在训练集中）的用户，按测试集顺序。
func (e *Evaluator) Users(test *store.RatingStore) []core.UserID {
	if e.Train == nil {
		return test.Users()
	}
	return lo.Filter(test.Users(), func(user core.UserID, _ int) bool {
		return e.Train.HasUser(user)
	})
}

// Evaluate 评估 users 中的每个用户；users 为空时评估 e.Users(test)。
// 结果按 users 顺序排列，平均值按该顺序串行计算。
func (e *Evaluator) Evaluate(ctx context.Context, test *store.RatingStore, users ...core.UserID) (*Report, error) {
	if len(users) == 0 {
		users = e.Users(test)
	}
	scores := make([]UserScore, len(users))

	eg, egCtx := errgroup.WithContext(ctx)
	if e.MaxConcurrent > 1 {
		eg.SetLimit(e.MaxConcurrent)
	} else {
		eg.SetLimit(1)
	}
	for i, user := range users {
		eg.Go(func() error {
			s, err := e.EvaluateUser(egCtx, user, test)
			if err != nil {
				return err
			}
			scores[i] = s
			if e.OnUser != nil {
				e.OnUser(s)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Users: scores}
	if len(scores) > 0 {
		n := float64(len(scores))
		report.Precision = lo.SumBy(scores, func(s UserScore) float64 { return s.Precision }) / n
		report.Recall = lo.SumBy(scores, func(s UserScore) float64 { return s.Recall }) / n
	}
	return report, nil
}

func (e *Evaluator) goodRating() float64 {
	if e.GoodRating <= 0 {
		return core.Defaults.DefaultGoodRating()
	}
	return e.GoodRating
}
