package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/m2gi/ecom/internal/models"
)

// ProductFilter narrows ListProducts. A non-nil empty IDs matches nothing.
type ProductFilter struct {
	IDs        []int64
	CategoryID *int64
	Text       string
	SortColumn string
	Desc       bool
	Offset     int
	Limit      int
}

func (r *GormRepo) applyProductFilter(db *gorm.DB, f ProductFilter) *gorm.DB {
	if f.IDs != nil {
		if len(f.IDs) == 0 {
			db = db.Where("1 = 0")
		} else {
			db = db.Where("id IN ?", f.IDs)
		}
	}
	if f.CategoryID != nil {
		inCategory := r.DB.Table("rel_product__categories").Select("product_id").Where("category_id = ?", *f.CategoryID)
		db = db.Where("id IN (?)", inCategory)
	}
	if f.Text != "" {
		like := "%" + strings.ToLower(f.Text) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	return db
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) (int64, []models.Product, error) {
	var total int64
	if err := r.applyProductFilter(r.DB.WithContext(ctx).Model(&models.Product{}), f).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	sortColumn := f.SortColumn
	if sortColumn == "" {
		sortColumn = "name"
	}

	q := r.applyProductFilter(r.DB.WithContext(ctx).Model(&models.Product{}), f).
		Preload("Categories").
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortColumn}, Desc: f.Desc}).
		Order("id ASC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}

	items := make([]models.Product, 0)
	if err := q.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Preload("Categories").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) ProductExists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.DB, &models.Product{}, id)
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return err
		}
		if len(product.Categories) == 0 {
			return nil
		}
		return tx.Model(product).Omit("Categories.*").Association("Categories").Replace(product.Categories)
	})
}

// SaveProduct writes every column; categories are replaced only when replaceCategories is set.
func (r *GormRepo) SaveProduct(ctx context.Context, product *models.Product, replaceCategories bool) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(product).Error; err != nil {
			return err
		}
		if !replaceCategories {
			return nil
		}
		return tx.Model(product).Omit("Categories.*").Association("Categories").Replace(product.Categories)
	})
}

// DeleteProduct refuses with gorm.ErrForeignKeyViolated while a cart line still holds the product.
func (r *GormRepo) DeleteProduct(ctx context.Context, id int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines int64
		if err := tx.Model(&models.ProductCart{}).Where("product_id = ?", id).Count(&lines).Error; err != nil {
			return err
		}
		if lines > 0 {
			return gorm.ErrForeignKeyViolated
		}

		if err := tx.Exec("DELETE FROM rel_product__categories WHERE product_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM rel_user_details__favorites WHERE product_id = ?", id).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// LoginsHoldingProduct lists the owners of carts with at least one line of productID.
func (r *GormRepo) LoginsHoldingProduct(ctx context.Context, productID int64) ([]string, error) {
	logins := make([]string, 0)
	err := r.DB.WithContext(ctx).
		Model(&models.UserDetails{}).
		Distinct("user_details.login").
		Joins("JOIN product_cart ON product_cart.cart_id = user_details.cart_id").
		Where("product_cart.product_id = ?", productID).
		Order("user_details.login ASC").
		Pluck("user_details.login", &logins).Error
	return logins, err
}
