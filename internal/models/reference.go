package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReferenceSource 参考文档来源类型
type ReferenceSource string

const (
	// RefSourceBNCC 国家课程基础文件
	RefSourceBNCC ReferenceSource = "bncc"
	// RefSourceDCRC 州课程参考文件
	RefSourceDCRC ReferenceSource = "dcrc"
)

// ReferenceDocument 参考文档加载记录
// 只记录每次加载的元数据，索引内容本身不持久化，进程重启后需要重新加载
type ReferenceDocument struct {
	ID         string          `gorm:"primaryKey"`         // 记录ID
	LoadID     string          `gorm:"size:50;index"`      // 所属加载批次ID
	Source     ReferenceSource `gorm:"size:10;not null"`   // 文档来源
	FileName   string          `gorm:"not null"`           // 文件名
	FileSize   int64           `gorm:"not null"`           // 文件大小（字节）
	CharCount  int             `gorm:"not null;default:0"` // 文本字符数
	ChunkCount int             `gorm:"not null;default:0"` // 该批次产出的块总数
	LoadedAt   time.Time       `gorm:"not null;index"`     // 加载时间
	Metadata   datatypes.JSON  `gorm:"type:json"`          // 附加元数据
}

// BeforeCreate GORM钩子，创建记录前补全加载时间
func (d *ReferenceDocument) BeforeCreate(tx *gorm.DB) (err error) {
	if d.LoadedAt.IsZero() {
		d.LoadedAt = time.Now()
	}
	return nil
}

// TableName 明确指定表名
func (ReferenceDocument) TableName() string {
	return "reference_documents"
}
