package recall

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/similarity"
	"github.com/rushteam/cfrec/store"
)

// fanoutScores 并发计算 user 与 users 中每个用户的相似度，结果与 users 按下标一一对应。
// user 自身对应的位置保持 0。各 goroutine 只写自己的下标；累加由调用方按 users 顺序串行完成。
//
// maxConcurrent <= 1 时直接串行计算。
func fanoutScores(
	ctx context.Context,
	s *store.RatingStore,
	user core.UserID,
	users []core.UserID,
	scorer similarity.Scorer,
	maxConcurrent int,
) ([]float64, error) {
	sims := make([]float64, len(users))
	if maxConcurrent <= 1 {
		for i, other := range users {
			if other == user {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sims[i] = scorer.Score(s, user, other)
		}
		return sims, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrent)
	for i, other := range users {
		if other == user {
			continue
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			sims[i] = scorer.Score(s, user, other)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return sims, nil
}
