package model

// swagger:model Category
type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Audit
}

func (Category) TableName() string {
	return "categories"
}
