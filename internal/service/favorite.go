package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/m2gi/ecom/internal/events"
	"github.com/m2gi/ecom/internal/models"
)

func (s *ProductService) Favorites(ctx context.Context, login string) ([]models.Product, error) {
	details, err := s.Repo.GetUserDetails(ctx, login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []models.Product{}, nil
	}
	if err != nil {
		return nil, err
	}
	if details.Favorites == nil {
		return []models.Product{}, nil
	}
	return details.Favorites, nil
}

// ToggleFavorite removes productID from login's favorites when present, adds it otherwise,
// and returns the resulting set. Read and write are not serialized against concurrent toggles.
func (s *ProductService) ToggleFavorite(ctx context.Context, login string, productID int64) ([]models.Product, error) {
	product, err := s.FindOne(ctx, productID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.EnsureUserDetails(ctx, login); err != nil {
		return nil, err
	}
	details, err := s.Repo.GetUserDetails(ctx, login)
	if err != nil {
		return nil, err
	}

	added := details.FavoriteIndex(productID) < 0
	if added {
		err = s.Repo.AddFavorite(ctx, details, product)
	} else {
		err = s.Repo.RemoveFavorite(ctx, details, product)
	}
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicProduct, login, events.Event{
		"type":      "favorite_toggled",
		"login":     login,
		"productID": productID,
		"favorite":  added,
	})
	return s.Favorites(ctx, login)
}
