package recall

import (
	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/similarity"
	"github.com/rushteam/cfrec/store"
)

// TopMatches 返回与 user 最相似的 n 个其他用户，(相似度, 用户ID) 按相似度降序。
// n <= 0 时取默认值 25；scorer 为 nil 时使用欧氏距离相似度。
// 相似度相同时用户 ID 较大的排在前面（见 core.RankDescending）。
func TopMatches(s *store.RatingStore, user core.UserID, n int, scorer similarity.Scorer) []core.Scored {
	if n <= 0 {
		n = core.Defaults.DefaultTopMatches()
	}
	scorer = similarity.OrDefault(scorer)

	scores := make([]core.Scored, 0, s.Len())
	for _, other := range s.Users() {
		if other == user {
			continue
		}
		scores = append(scores, core.Scored{Score: scorer.Score(s, user, other), ID: other})
	}
	return core.RankDescending(scores, n)
}
