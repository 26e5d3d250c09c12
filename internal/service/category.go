package service

import (
	"context"

	"github.com/m2gi/ecom/internal/models"
	"github.com/m2gi/ecom/internal/repo"
	"github.com/m2gi/ecom/internal/transport"
)

type CategoryService struct {
	Repo *repo.GormRepo
}

func (s *CategoryService) Create(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	category := &models.Category{Name: req.Name}
	if err := s.Repo.SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, req transport.CategoryRequest) (*models.Category, error) {
	category, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	if err := s.Repo.SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) PartialUpdate(ctx context.Context, id int64, req transport.PatchCategoryRequest) (*models.Category, error) {
	category, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == nil {
		return category, nil
	}
	category.Name = *req.Name
	if err := s.Repo.SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) FindAll(ctx context.Context) ([]models.Category, error) {
	return s.Repo.GetCategories(ctx)
}

func (s *CategoryService) FindOne(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	return category, nil
}

func (s *CategoryService) Exists(ctx context.Context, id int64) (bool, error) {
	return s.Repo.CategoryExists(ctx, id)
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return notFound(s.Repo.DeleteCategory(ctx, id), "category")
}
