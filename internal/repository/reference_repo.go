package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fyerfyer/edu-assess-rag/internal/database"
	"github.com/fyerfyer/edu-assess-rag/internal/models"
)

// ReferenceRepository 参考文档加载记录仓储接口
type ReferenceRepository interface {
	// Create 创建加载记录
	Create(doc *models.ReferenceDocument) error

	// GetByLoadID 获取一个加载批次的所有记录
	GetByLoadID(loadID string) ([]models.ReferenceDocument, error)

	// Latest 获取最近一次加载批次的记录
	Latest() ([]models.ReferenceDocument, error)

	// List 按时间倒序列出加载记录
	List(limit int) ([]models.ReferenceDocument, error)
}

// referenceRepository 基于GORM的仓储实现
type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository 创建仓储实例，使用全局数据库连接
func NewReferenceRepository() ReferenceRepository {
	return &referenceRepository{db: database.MustDB()}
}

// NewReferenceRepositoryWithDB 使用指定的数据库连接创建仓储实例
func NewReferenceRepositoryWithDB(db *gorm.DB) ReferenceRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &referenceRepository{db: db}
}

// Create 创建加载记录
func (r *referenceRepository) Create(doc *models.ReferenceDocument) error {
	if doc.ID == "" {
		return errors.New("reference document ID cannot be empty")
	}
	return r.db.Create(doc).Error
}

// GetByLoadID 获取一个加载批次的所有记录
func (r *referenceRepository) GetByLoadID(loadID string) ([]models.ReferenceDocument, error) {
	var docs []models.ReferenceDocument
	err := r.db.Where("load_id = ?", loadID).Order("source").Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query load records: %v", err)
	}
	return docs, nil
}

// Latest 获取最近一次加载批次的记录
func (r *referenceRepository) Latest() ([]models.ReferenceDocument, error) {
	var latest models.ReferenceDocument
	err := r.db.Order("loaded_at desc").First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.GetByLoadID(latest.LoadID)
}

// List 按时间倒序列出加载记录
func (r *referenceRepository) List(limit int) ([]models.ReferenceDocument, error) {
	if limit <= 0 {
		limit = 20
	}
	var docs []models.ReferenceDocument
	err := r.db.Order("loaded_at desc").Limit(limit).Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list load records: %v", err)
	}
	return docs, nil
}
