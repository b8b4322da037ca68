package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rushteam/cfrec/core"
)

func TestRatingStore_AutoVivify(t *testing.T) {
	s := NewRatingStore()
	assert.False(t, s.HasUser(7))

	// 未知用户可以直接写入
	s.Set(7, 100, core.NewAttributeVector(4, 1, 2))
	assert.True(t, s.HasUser(7))
	v, ok := s.Get(7, 100)
	assert.True(t, ok)
	assert.Equal(t, 4.0, v.Rating())
	assert.Equal(t, core.AttributeVector{4, 1, 2}, v)

	// EnsureUser 返回的是同一个映射，可继续修改
	s.EnsureUser(7).Set(101, core.NewAttributeVector(3))
	assert.Equal(t, []core.ItemID{100, 101}, s.User(7).Items())

	// EnsureUser 会插入空映射
	empty := s.EnsureUser(8)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, []core.UserID{7, 8}, s.Users())
}

func TestRatingStore_AbsentReads(t *testing.T) {
	s := NewRatingStore()
	u := s.User(42)
	assert.Nil(t, u)
	assert.Equal(t, 0, u.Len())
	assert.Empty(t, u.Items())
	assert.False(t, u.Has(1))
	assert.Equal(t, 0.0, u.Rating(1))
	// 只读访问不会创建用户
	assert.Equal(t, 0, s.Len())

	_, ok := s.Get(42, 1)
	assert.False(t, ok)
}

func TestRatingStore_InsertionOrder(t *testing.T) {
	s := NewRatingStore()
	s.Set(3, 30, core.NewAttributeVector(1))
	s.Set(1, 10, core.NewAttributeVector(2))
	s.Set(2, 20, core.NewAttributeVector(3))
	s.Set(1, 12, core.NewAttributeVector(4))
	// 覆盖写入保持原位置
	s.Set(1, 10, core.NewAttributeVector(5))

	assert.Equal(t, []core.UserID{3, 1, 2}, s.Users())
	assert.Equal(t, []core.ItemID{10, 12}, s.User(1).Items())
	assert.Equal(t, 5.0, s.User(1).Rating(10))
	assert.Equal(t, 4, s.NumRatings())
}

func TestUserRatings_ForIntersection(t *testing.T) {
	s := NewRatingStore()
	s.Set(1, 10, core.NewAttributeVector(5))
	s.Set(1, 11, core.NewAttributeVector(3))
	s.Set(1, 12, core.NewAttributeVector(1))
	s.Set(2, 12, core.NewAttributeVector(2))
	s.Set(2, 10, core.NewAttributeVector(4))

	var items []core.ItemID
	var pairs [][2]float64
	s.User(1).ForIntersection(s.User(2), func(item core.ItemID, a, b core.AttributeVector) {
		items = append(items, item)
		pairs = append(pairs, [2]float64{a.Rating(), b.Rating()})
	})
	assert.Equal(t, []core.ItemID{10, 12}, items)
	assert.Equal(t, [][2]float64{{5, 4}, {1, 2}}, pairs)

	called := false
	s.User(1).ForIntersection(s.User(99), func(core.ItemID, core.AttributeVector, core.AttributeVector) {
		called = true
	})
	assert.False(t, called)
}

func TestItemCatalog(t *testing.T) {
	c := NewItemCatalog()
	c.Set(20, []float64{1, 2})
	c.Set(10, []float64{3})
	c.Set(20, []float64{9})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []core.ItemID{10, 20}, c.Items())
	attrs, ok := c.Get(20)
	assert.True(t, ok)
	assert.Equal(t, []float64{9}, attrs)

	var nilCatalog *ItemCatalog
	assert.Equal(t, 0, nilCatalog.Len())
	assert.Nil(t, nilCatalog.Items())
}
