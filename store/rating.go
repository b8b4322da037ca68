package store

import (
	"github.com/rushteam/cfrec/core"
)

// UserRatings 是单个用户的 物品 -> 属性向量 映射，按首次写入顺序迭代。
// nil 的 *UserRatings 表示“没有任何物品”，所有读方法都可安全调用。
type UserRatings struct {
	items map[core.ItemID]core.AttributeVector
	order []core.ItemID
}

func newUserRatings() *UserRatings {
	return &UserRatings{items: make(map[core.ItemID]core.AttributeVector)}
}

// Set 写入一条记录；已有的物品保持原来的迭代位置，只替换向量。
func (u *UserRatings) Set(item core.ItemID, v core.AttributeVector) {
	if _, ok := u.items[item]; !ok {
		u.order = append(u.order, item)
	}
	u.items[item] = v
}

// Get 读取物品的属性向量。
func (u *UserRatings) Get(item core.ItemID) (core.AttributeVector, bool) {
	if u == nil {
		return nil, false
	}
	v, ok := u.items[item]
	return v, ok
}

// Has 判断用户是否记录过该物品。
func (u *UserRatings) Has(item core.ItemID) bool {
	_, ok := u.Get(item)
	return ok
}

// Rating 返回用户对物品的评分，未记录时返回 0。
func (u *UserRatings) Rating(item core.ItemID) float64 {
	v, _ := u.Get(item)
	return v.Rating()
}

// Items 返回物品 ID（写入顺序），调用方不应修改返回的切片。
func (u *UserRatings) Items() []core.ItemID {
	if u == nil {
		return nil
	}
	return u.order
}

// Len 返回物品数量。
func (u *UserRatings) Len() int {
	if u == nil {
		return 0
	}
	return len(u.order)
}

// ForEach 按写入顺序遍历。
func (u *UserRatings) ForEach(fn func(item core.ItemID, v core.AttributeVector)) {
	if u == nil {
		return
	}
	for _, item := range u.order {
		fn(item, u.items[item])
	}
}

// ForIntersection 按 u 的写入顺序遍历两个用户都记录过的物品。
func (u *UserRatings) ForIntersection(other *UserRatings, fn func(item core.ItemID, a, b core.AttributeVector)) {
	if u == nil || other == nil {
		return
	}
	for _, item := range u.order {
		if w, ok := other.items[item]; ok {
			fn(item, u.items[item], w)
		}
	}
}

// RatingStore 是两层的评分存储：用户 -> (物品 -> 属性向量)。
//
// 写入时自动创建用户（EnsureUser），因此可以直接 Set 而不必先检查用户是否存在；
// 读取不存在的用户得到空映射而不是错误。用户与物品都按首次写入顺序迭代，
// 保证聚合时浮点累加顺序稳定。
//
// RatingStore 构建完成后只读，可被多个 goroutine 并发读取；写入不是并发安全的。
type RatingStore struct {
	users map[core.UserID]*UserRatings
	order []core.UserID
}

// NewRatingStore 创建空的评分存储。
func NewRatingStore() *RatingStore {
	return &RatingStore{users: make(map[core.UserID]*UserRatings)}
}

// EnsureUser 返回用户的物品映射，不存在时插入并返回一个空映射。
func (s *RatingStore) EnsureUser(user core.UserID) *UserRatings {
	if u, ok := s.users[user]; ok {
		return u
	}
	u := newUserRatings()
	s.users[user] = u
	s.order = append(s.order, user)
	return u
}

// Set 写入 store[user][item] = v。
func (s *RatingStore) Set(user core.UserID, item core.ItemID, v core.AttributeVector) {
	s.EnsureUser(user).Set(item, v)
}

// User 返回用户的物品映射；未知用户返回 nil（按空映射处理），不修改存储。
func (s *RatingStore) User(user core.UserID) *UserRatings {
	if s == nil {
		return nil
	}
	return s.users[user]
}

// HasUser 判断用户是否存在。
func (s *RatingStore) HasUser(user core.UserID) bool {
	if s == nil {
		return false
	}
	_, ok := s.users[user]
	return ok
}

// Get 读取 store[user][item]。
func (s *RatingStore) Get(user core.UserID, item core.ItemID) (core.AttributeVector, bool) {
	return s.User(user).Get(item)
}

// Users 返回用户 ID（写入顺序），调用方不应修改返回的切片。
func (s *RatingStore) Users() []core.UserID {
	if s == nil {
		return nil
	}
	return s.order
}

// Len 返回用户数。
func (s *RatingStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// NumRatings 返回所有用户-物品记录数。
func (s *RatingStore) NumRatings() int {
	n := 0
	for _, user := range s.Users() {
		n += s.users[user].Len()
	}
	return n
}
