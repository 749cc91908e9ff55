package tag

// Tag labels recipes, e.g. "Breakfast" with slug "breakfast".
type Tag struct {
	ID    int64   `json:"id" gorm:"primaryKey"`
	Name  string  `json:"name" gorm:"size:200;not null;uniqueIndex"`
	Color *string `json:"color" gorm:"size:7"`
	Slug  string  `json:"slug" gorm:"size:200;not null;uniqueIndex"`
}

func (Tag) TableName() string {
	return "tags"
}
