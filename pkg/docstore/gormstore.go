package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore MySQL JSON 列实现
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// 字段名只允许标识符字符，防止拼进 SQL 的 JSON path 被注入
var fieldNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func jsonPath(field string) (string, error) {
	if !fieldNamePattern.MatchString(field) {
		return "", fmt.Errorf("%w: invalid field name %q", ErrStore, field)
	}
	return "$." + field, nil
}

func (s *GormStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	var doc Document
	err := s.DB.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return json.Unmarshal(doc.Data, out)
}

func (s *GormStore) Set(ctx context.Context, collection, id string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	doc := Document{Collection: collection, DocID: id, Data: raw}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, collection, id string, partial map[string]interface{}) error {
	raw, err := json.Marshal(partial)
	if err != nil {
		return err
	}

	res := s.DB.WithContext(ctx).Model(&Document{}).
		Where("collection = ? AND doc_id = ?", collection, id).
		Update("data", gorm.Expr("JSON_MERGE_PATCH(data, CAST(? AS JSON))", string(raw)))
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStore, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, collection, id string) error {
	err := s.DB.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&Document{}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

func (s *GormStore) Add(ctx context.Context, collection string, data interface{}) (string, error) {
	id := uuid.New().String()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *GormStore) Query(ctx context.Context, collection string, filters []Filter, orderBy *Order, out interface{}) error {
	tx := s.DB.WithContext(ctx).Model(&Document{}).Where("collection = ?", collection)

	for _, f := range filters {
		if f.Op != "" && f.Op != "==" {
			return fmt.Errorf("%w: unsupported filter op %q", ErrStore, f.Op)
		}
		path, err := jsonPath(f.Field)
		if err != nil {
			return err
		}
		tx = tx.Where("JSON_UNQUOTE(JSON_EXTRACT(data, ?)) = ?", path, fmt.Sprint(f.Value))
	}

	if orderBy != nil {
		path, err := jsonPath(orderBy.Field)
		if err != nil {
			return err
		}
		dir := "ASC"
		if orderBy.Desc {
			dir = "DESC"
		}
		// path 已通过标识符校验，可以安全拼接
		tx = tx.Order(fmt.Sprintf("JSON_EXTRACT(data, '%s') %s", path, dir))
	} else {
		tx = tx.Order("doc_id ASC")
	}

	var docs []Document
	if err := tx.Find(&docs).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	return unmarshalDocs(docs, out)
}

func (s *GormStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	path, err := jsonPath(field)
	if err != nil {
		return err
	}

	// 单条 UPDATE 内完成 读-加-写，保证并发自增不丢更新
	res := s.DB.WithContext(ctx).Model(&Document{}).
		Where("collection = ? AND doc_id = ?", collection, id).
		Update("data", gorm.Expr(
			"JSON_SET(data, ?, IFNULL(JSON_EXTRACT(data, ?), 0) + ?)",
			path, path, delta,
		))
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStore, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// unmarshalDocs 把各文档的 JSON 拼成数组后一次性反序列化到 out
func unmarshalDocs(docs []Document, out interface{}) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, d := range docs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(d.Data)
	}
	buf.WriteByte(']')
	return json.Unmarshal(buf.Bytes(), out)
}
