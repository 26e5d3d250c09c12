package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/m2gi/ecom/internal/models"
)

func (r *GormRepo) GetUserDetails(ctx context.Context, login string) (*models.UserDetails, error) {
	var details models.UserDetails
	if err := r.DB.WithContext(ctx).
		Preload("Favorites", func(tx *gorm.DB) *gorm.DB { return tx.Order("name ASC").Order("id ASC") }).
		Where("login = ?", login).
		First(&details).Error; err != nil {
		return nil, err
	}
	return &details, nil
}

// EnsureUserDetails returns the details row for login, creating it on first use.
func (r *GormRepo) EnsureUserDetails(ctx context.Context, login string) (*models.UserDetails, error) {
	details := models.UserDetails{Login: login}
	if err := r.DB.WithContext(ctx).Where("login = ?", login).FirstOrCreate(&details).Error; err != nil {
		return nil, err
	}
	return &details, nil
}

// EnsureCart returns the id of login's cart, creating the details row and the cart lazily.
func (r *GormRepo) EnsureCart(ctx context.Context, login string) (int64, error) {
	var cartID int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		details := models.UserDetails{Login: login}
		if err := tx.Where("login = ?", login).FirstOrCreate(&details).Error; err != nil {
			return err
		}
		if details.CartID != nil {
			cartID = *details.CartID
			return nil
		}

		cart := models.Cart{}
		if err := tx.Create(&cart).Error; err != nil {
			return err
		}
		if err := tx.Model(&details).Update("cart_id", cart.ID).Error; err != nil {
			return err
		}
		cartID = cart.ID
		return nil
	})
	return cartID, err
}

// LoginForCart returns the owner's login, or "" for an orphan cart.
func (r *GormRepo) LoginForCart(ctx context.Context, cartID int64) (string, error) {
	var details models.UserDetails
	err := r.DB.WithContext(ctx).Select("login").Where("cart_id = ?", cartID).First(&details).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return details.Login, nil
}

func (r *GormRepo) AddFavorite(ctx context.Context, details *models.UserDetails, product *models.Product) error {
	return r.DB.WithContext(ctx).Model(details).Omit("Favorites.*").Association("Favorites").Append(product)
}

func (r *GormRepo) RemoveFavorite(ctx context.Context, details *models.UserDetails, product *models.Product) error {
	return r.DB.WithContext(ctx).Model(details).Association("Favorites").Delete(product)
}
