package ingredient

// Ingredient is a catalog entry with its unit of measure, e.g. "salt" in "g".
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;not null;index"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
