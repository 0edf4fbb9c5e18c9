package model

import (
	"time"

	"gorm.io/gorm"
)

// Audit 记录创建人/修改人及对应时间
type Audit struct {
	CreatedBy   uint       `gorm:"not null;index" json:"created_by"`
	CreatedDate time.Time  `gorm:"not null" json:"created_date"`
	UpdatedBy   *uint      `json:"updated_by"`
	UpdatedDate *time.Time `json:"updated_date"`
}

func (a *Audit) BeforeCreate(tx *gorm.DB) (err error) {
	if a.CreatedDate.IsZero() {
		a.CreatedDate = time.Now()
	}
	return
}

// Touch 标记一次修改
func (a *Audit) Touch(userID uint) {
	now := time.Now()
	a.UpdatedBy = &userID
	a.UpdatedDate = &now
}
