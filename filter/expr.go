package filter

import (
	"context"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/pkg/dsl"
)

// ExprFilter 只保留满足 CEL 表达式的物品，例如 `item.score >= 3.5`。
type ExprFilter struct {
	expr *dsl.Expr
}

// NewExprFilter 编译表达式并创建过滤器。
func NewExprFilter(expr string) (*ExprFilter, error) {
	e, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{expr: e}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	ok, err := f.expr.Match(item, rctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}
