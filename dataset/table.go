// Package dataset 读取评分表（LDOS-CoMoDa 格式），并切分为训练/测试评分存储。
//
// 每行：[userID, itemID, rating, 上下文属性 ×16, 物品属性 ...]，
// 第 2..18 列构成用户-物品属性向量（第 0 位是评分），第 19 列起为物品目录属性。
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/pkg/log"
)

// 表格列布局
const (
	UserColumn   = 0
	ItemColumn   = 1
	RatingColumn = 2
	// ItemAttrColumn 是物品目录属性的起始列，同时也是属性向量的结束列（不含）
	ItemAttrColumn = RatingColumn + core.ContextWidth
)

// MissingValue 是缺失值哨兵，空单元格也按缺失处理。
const MissingValue = -1.0

// Table 是读入内存的数值表。
type Table struct {
	Header []string
	Rows   [][]float64
}

// ReadOption 读取选项
type ReadOption func(*readOptions)

type readOptions struct {
	header bool
	comma  rune
	impute bool
}

// WithHeader 设置首行是否为表头（默认 true）。
func WithHeader(header bool) ReadOption {
	return func(o *readOptions) { o.header = header }
}

// WithComma 设置分隔符（默认 ','）。
func WithComma(comma rune) ReadOption {
	return func(o *readOptions) { o.comma = comma }
}

// WithImpute 设置是否用列均值填充缺失值（默认 true）。
func WithImpute(impute bool) ReadOption {
	return func(o *readOptions) { o.impute = impute }
}

// ReadFile 从文件读取评分表。
func ReadFile(path string, opts ...ReadOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotatef(err, "open dataset %s", path)
	}
	defer f.Close()
	t, err := Read(f, opts...)
	if err != nil {
		return nil, errors.Annotatef(err, "read dataset %s", path)
	}
	log.Logger().Info("loaded dataset",
		zap.String("path", path),
		zap.Int("rows", len(t.Rows)),
		zap.Int("columns", len(t.Header)))
	return t, nil
}

// Read 读取评分表。缺少 user/item/rating 任一列的行视为格式错误；
// user 或 item 缺失的行会被跳过。
func Read(r io.Reader, opts ...ReadOption) (*Table, error) {
	o := readOptions{header: true, comma: ',', impute: true}
	for _, opt := range opts {
		opt(&o)
	}

	reader := csv.NewReader(r)
	reader.Comma = o.comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	t := &Table{}
	line := 0
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Trace(err)
		}
		line++
		if line == 1 && o.header {
			t.Header = record
			continue
		}
		if len(record) <= RatingColumn {
			return nil, invalidRow(line, fmt.Sprintf("expect at least %d columns, got %d", RatingColumn+1, len(record)))
		}
		row := make([]float64, len(record))
		for i, cell := range record {
			v, err := parseCell(cell)
			if err != nil {
				return nil, invalidRow(line, fmt.Sprintf("column %d: %v", i, err))
			}
			row[i] = v
		}
		if row[UserColumn] == MissingValue || row[ItemColumn] == MissingValue {
			skipped++
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	if skipped > 0 {
		log.Logger().Warn("skipped rows without user or item", zap.Int("rows", skipped))
	}
	if o.impute {
		t.Impute()
	}
	return t, nil
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return MissingValue, nil
	}
	return strconv.ParseFloat(cell, 64)
}

func invalidRow(line int, msg string) error {
	return core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
		fmt.Sprintf("dataset: line %d: %s", line, msg))
}

// Impute 用每列非缺失值的均值替换该列的缺失值（user/item 列除外）。
// 整列都缺失时保持哨兵值不变。
func (t *Table) Impute() {
	width := 0
	for _, row := range t.Rows {
		width = max(width, len(row))
	}
	sums := make([]float64, width)
	counts := make([]int, width)
	for _, row := range t.Rows {
		for i := RatingColumn; i < len(row); i++ {
			if row[i] != MissingValue {
				sums[i] += row[i]
				counts[i]++
			}
		}
	}
	for _, row := range t.Rows {
		for i := RatingColumn; i < len(row); i++ {
			if row[i] == MissingValue && counts[i] > 0 {
				row[i] = sums[i] / float64(counts[i])
			}
		}
	}
}

// Shuffle 用给定种子随机打乱行顺序，同一种子得到同一排列。
func (t *Table) Shuffle(seed uint64) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(t.Rows), func(i, j int) {
		t.Rows[i], t.Rows[j] = t.Rows[j], t.Rows[i]
	})
}
