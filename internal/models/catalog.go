package models

import "github.com/shopspring/decimal"

func init() {
	// prices are JSON numbers on the wire
	decimal.MarshalJSONWithoutQuotes = true
}

type WeightUnit string

const (
	WeightUnitKG WeightUnit = "KG"
	WeightUnitG  WeightUnit = "G"
	WeightUnitL  WeightUnit = "L"
	WeightUnitML WeightUnit = "ML"
	WeightUnitU  WeightUnit = "U"
)

func (u WeightUnit) Valid() bool {
	switch u {
	case WeightUnitKG, WeightUnitG, WeightUnitL, WeightUnitML, WeightUnitU:
		return true
	}
	return false
}

type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:255;not null"        json:"name"`
}

func (Category) TableName() string { return "category" }

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"                 json:"id"`
	Name        string          `gorm:"size:255;not null;index"                  json:"name"`
	Description string          `gorm:"size:2000"                                json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(21,2);not null"              json:"price"`
	Weight      float64         `                                                json:"weight"`
	WeightUnit  WeightUnit      `gorm:"size:8"                                   json:"weightUnit"`
	Stock       int             `gorm:"not null;default:0"                       json:"stock"`
	ImagePath   string          `gorm:"size:512"                                 json:"imagePath"`
	Categories  []Category      `gorm:"many2many:rel_product__categories"        json:"categories,omitempty"`
}

func (Product) TableName() string { return "product" }

func (p *Product) HasCategory(id int64) bool {
	for _, c := range p.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
