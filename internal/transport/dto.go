package transport

import (
	"github.com/shopspring/decimal"

	"github.com/m2gi/ecom/internal/models"
)

type CartRequest struct {
	ID *int64 `json:"id"`
}

type CategoryRequest struct {
	ID   *int64 `json:"id"`
	Name string `json:"name" validate:"required,max=255"`
}

type PatchCategoryRequest struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name" validate:"omitempty,min=1,max=255"`
}

// ProductRequest is the full representation used by POST and PUT.
type ProductRequest struct {
	ID          *int64            `json:"id"`
	Name        string            `json:"name"        validate:"required,max=255"`
	Description string            `json:"description" validate:"max=2000"`
	Price       *decimal.Decimal  `json:"price"       validate:"required"`
	Weight      float64           `json:"weight"      validate:"gte=0"`
	WeightUnit  models.WeightUnit `json:"weightUnit"  validate:"omitempty,oneof=KG G L ML U"`
	Stock       int               `json:"stock"       validate:"gte=0"`
	ImagePath   string            `json:"imagePath"   validate:"max=512"`
	CategoryIDs []int64           `json:"categoryIds"`
}

// PatchProductRequest leaves nil fields untouched; a nil CategoryIDs keeps the categories.
type PatchProductRequest struct {
	ID          *int64             `json:"id"`
	Name        *string            `json:"name"        validate:"omitempty,min=1,max=255"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal   `json:"price"`
	Weight      *float64           `json:"weight"      validate:"omitempty,gte=0"`
	WeightUnit  *models.WeightUnit `json:"weightUnit"  validate:"omitempty,oneof=KG G L ML U"`
	Stock       *int               `json:"stock"       validate:"omitempty,gte=0"`
	ImagePath   *string            `json:"imagePath"   validate:"omitempty,max=512"`
	CategoryIDs []int64            `json:"categoryIds"`
}

type ProductQuery struct {
	Query      string
	CategoryID *int64
	SortBy     string
	SortOrder  string
	Offset     int
	Limit      int
}
