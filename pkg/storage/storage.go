// Package storage 提供参考语料文件的存取后端
// 检索核心不关心文件来自哪里，本地磁盘和对象存储都可以作为语料源
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// FileInfo 语料文件元数据
type FileInfo struct {
	Name     string // 文件名，如 bncc.md
	Size     int64  // 文件大小(字节)
	MimeType string // MIME类型
	Path     string // 内部存储路径(实现相关)
}

// Storage 语料文件存储接口
// 按文件名存取参考文档，可以有不同实现(本地文件系统、MinIO等)
type Storage interface {
	// Store 保存语料文件并返回文件信息
	Store(ctx context.Context, name string, reader io.Reader) (FileInfo, error)

	// Fetch 按文件名获取语料文件内容
	Fetch(ctx context.Context, name string) (io.ReadCloser, error)

	// Exists 检查语料文件是否存在
	Exists(ctx context.Context, name string) (bool, error)

	// List 列出所有语料文件
	List(ctx context.Context) ([]FileInfo, error)
}

// getMimeType 根据文件扩展名判断MIME类型
func getMimeType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
