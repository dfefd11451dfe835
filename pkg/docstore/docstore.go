package docstore

import (
	"context"
	"errors"
	"time"
)

// 文档存储抽象：按 集合名+文档ID 寻址，只支持等值过滤和单字段排序。
// 复合全文检索、多字段排序等都由上层在内存中完成。

var (
	ErrNotFound = errors.New("document not found")
	ErrStore    = errors.New("document store error")
)

// Filter 等值过滤条件，Op 目前仅支持 "=="
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// Order 单字段排序
type Order struct {
	Field string
	Desc  bool
}

func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Op: "==", Value: value}
}

type Store interface {
	// Get 读取单个文档并反序列化到 out；不存在时返回 ErrNotFound
	Get(ctx context.Context, collection, id string, out interface{}) error
	// Set 全量写入（upsert）
	Set(ctx context.Context, collection, id string, data interface{}) error
	// Update 部分更新，partial 中的字段覆盖原文档同名字段
	Update(ctx context.Context, collection, id string, partial map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	// Add 生成新ID并写入，返回ID
	Add(ctx context.Context, collection string, data interface{}) (string, error)
	// Query 等值过滤 + 可选单字段排序，结果反序列化到 out（*[]T）
	Query(ctx context.Context, collection string, filters []Filter, orderBy *Order, out interface{}) error
	// Increment 原子地对文档的数字字段加 delta
	Increment(ctx context.Context, collection, id, field string, delta int64) error
}

// Document documents 表的行结构，所有集合共用一张表
type Document struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	Collection string `gorm:"size:64;not null;uniqueIndex:idx_collection_doc,priority:1"`
	DocID      string `gorm:"size:128;not null;uniqueIndex:idx_collection_doc,priority:2"`
	Data       []byte `gorm:"type:json;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Document) TableName() string {
	return "documents"
}
