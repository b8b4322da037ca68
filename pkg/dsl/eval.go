package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/cfrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Expr 是编译好的推荐结果过滤表达式，使用 CEL (Common Expression Language) 语法。
// 编译一次后可并发地对多个物品求值。
//
// 可用变量：
//   - item.id / item.score / item.attributes（物品目录属性列表）/ item.labels
//   - label.<key>：label 的 value，例如 label.cf_metric == "pearson"
//   - rctx.user_id / rctx.params / rctx.labels.<key>（用户级 label 的 value）
//
// 示例：
//   - `item.score >= 3.5`
//   - `item.score > 4 && label.cf_neighbors != "1"`
//   - `size(item.attributes) > 2 && item.attributes[2] == 1.0`
type Expr struct {
	src string
	prg cel.Program
}

// Compile 编译表达式。空表达式匹配所有物品。
func Compile(expr string) (*Expr, error) {
	e := &Expr{src: expr}
	if expr == "" {
		return e, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	e.prg = prg
	return e, nil
}

// String 返回原始表达式。
func (e *Expr) String() string { return e.src }

// Match 对单个物品求值，表达式必须返回 bool。
func (e *Expr) Match(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if e.prg == nil {
		return true, nil
	}
	out, _, err := e.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	labelAccessor := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = map[string]any{
			"value":  v.Value,
			"source": v.Source,
		}
		labelAccessor[k] = v.Value
	}

	attrs := item.Attributes
	if attrs == nil {
		attrs = []float64{}
	}
	input := map[string]any{
		"item": map[string]any{
			"id":         item.ID,
			"score":      item.Score,
			"attributes": attrs,
			"labels":     labels,
		},
		"label": labelAccessor,
	}

	rctxLabels := map[string]any{}
	rctxInput := map[string]any{"user_id": int64(0), "params": map[string]any{}, "labels": rctxLabels}
	if rctx != nil {
		rctxInput["user_id"] = rctx.UserID
		if rctx.Params != nil {
			rctxInput["params"] = rctx.Params
		}
		for k, v := range rctx.Labels {
			rctxLabels[k] = v.Value
		}
	}
	input["rctx"] = rctxInput
	return input
}
