// Package persistence 提供仓储层共用的查询规约与工作单元。
package persistence

import "gorm.io/gorm"

// Condition 单个过滤条件，Query 为 gorm 风格的条件表达式。
type Condition struct {
	Query string
	Args  []any
}

// Specification 查询规约
// 封装过滤条件、预加载、排序与分页，仓储的 Find/FindSingle/Count 以其为参数。
type Specification struct {
	conditions []Condition
	preloads   []string
	orderBy    string
	skip       int
	take       int
}

// NewSpecification 创建空规约。
func NewSpecification() *Specification {
	return &Specification{take: -1}
}

// Where 追加过滤条件。
func (s *Specification) Where(query string, args ...any) *Specification {
	s.conditions = append(s.conditions, Condition{Query: query, Args: args})
	return s
}

// Preload 追加关联预加载。
func (s *Specification) Preload(associations ...string) *Specification {
	s.preloads = append(s.preloads, associations...)
	return s
}

// OrderBy 设置排序表达式。
func (s *Specification) OrderBy(expr string) *Specification {
	s.orderBy = expr
	return s
}

// Paginate 设置跳过与获取条数。
func (s *Specification) Paginate(skip, take int) *Specification {
	if skip < 0 {
		skip = 0
	}
	s.skip = skip
	s.take = take
	return s
}

// Apply 将规约翻译为 gorm 查询。
func (s *Specification) Apply(db *gorm.DB) *gorm.DB {
	for _, c := range s.conditions {
		db = db.Where(c.Query, c.Args...)
	}
	for _, p := range s.preloads {
		db = db.Preload(p)
	}
	if s.orderBy != "" {
		db = db.Order(s.orderBy)
	}
	if s.skip > 0 {
		db = db.Offset(s.skip)
	}
	if s.take >= 0 {
		db = db.Limit(s.take)
	}
	return db
}

// ApplyFilters 仅应用过滤条件，用于 Count 等不需要分页排序的场景。
func (s *Specification) ApplyFilters(db *gorm.DB) *gorm.DB {
	for _, c := range s.conditions {
		db = db.Where(c.Query, c.Args...)
	}
	return db
}
