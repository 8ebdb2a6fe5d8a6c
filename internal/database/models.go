package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document 保存一份简历快照（内容 + 偏好），按 Key 唯一。
type Document struct {
	gorm.Model
	Key      string `gorm:"uniqueIndex;size:128"`
	Content  datatypes.JSON
	Template string `gorm:"size:32"`
}

// ExportRecord 记录一次导出产生的文件。
type ExportRecord struct {
	gorm.Model
	RunID    string `gorm:"index;size:36"`
	Format   string `gorm:"size:16"`
	Name     string `gorm:"size:255"`
	Location string `gorm:"size:512"`
	Pages    int
	Bytes    int64
}
