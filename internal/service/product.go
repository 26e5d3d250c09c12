package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/m2gi/ecom/internal/events"
	"github.com/m2gi/ecom/internal/models"
	"github.com/m2gi/ecom/internal/repo"
	"github.com/m2gi/ecom/internal/search"
	"github.com/m2gi/ecom/internal/transport"
	"github.com/m2gi/ecom/pkg/logging"
)

const maxSearchHits = 200

var productSortColumns = map[string]string{
	"id":     "id",
	"name":   "name",
	"price":  "price",
	"weight": "weight",
	"stock":  "stock",
}

// CartInvalidator drops cached carts that show a product.
type CartInvalidator interface {
	InvalidateProduct(ctx context.Context, productID int64)
}

type ProductService struct {
	Repo   *repo.GormRepo
	Search search.Engine
	Events events.Publisher
	Carts  CartInvalidator
}

func NewProductService(r *repo.GormRepo, engine search.Engine, pub events.Publisher) *ProductService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &ProductService{Repo: r, Search: engine, Events: pub}
}

func (s *ProductService) Exists(ctx context.Context, id int64) (bool, error) {
	return s.Repo.ProductExists(ctx, id)
}

func (s *ProductService) FindOne(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return product, nil
}

// List applies the text query first, then the category, else lists everything.
func (s *ProductService) List(ctx context.Context, q transport.ProductQuery) (int64, []models.Product, error) {
	filter := repo.ProductFilter{Offset: q.Offset, Limit: q.Limit}

	column := "name"
	if q.SortBy != "" {
		c, ok := productSortColumns[q.SortBy]
		if !ok {
			return 0, nil, fmt.Errorf("unknown sort field %q: %w", q.SortBy, ErrValidation)
		}
		column = c
	}
	filter.SortColumn = column

	switch strings.ToUpper(q.SortOrder) {
	case "", "ASC":
	case "DESC":
		filter.Desc = true
	default:
		return 0, nil, fmt.Errorf("unknown sort order %q: %w", q.SortOrder, ErrValidation)
	}

	switch {
	case strings.TrimSpace(q.Query) != "":
		text := strings.TrimSpace(q.Query)
		if ids, ok := s.searchIDs(ctx, text); ok {
			filter.IDs = ids
		} else {
			filter.Text = text
		}
	case q.CategoryID != nil:
		ok, err := s.Repo.CategoryExists(ctx, *q.CategoryID)
		if err != nil {
			return 0, nil, err
		}
		if !ok {
			return 0, nil, fmt.Errorf("category %d: %w", *q.CategoryID, ErrNotFound)
		}
		filter.CategoryID = q.CategoryID
	}

	return s.Repo.ListProducts(ctx, filter)
}

// searchIDs asks the search engine; ok is false when SQL matching should be used instead.
func (s *ProductService) searchIDs(ctx context.Context, text string) ([]int64, bool) {
	if s.Search == nil {
		return nil, false
	}
	ids, err := s.Search.SearchProductIDs(ctx, text, maxSearchHits)
	if err != nil {
		logging.FromContext(ctx).Warn("product_search_error", "query", text, "error", err)
		return nil, false
	}
	return ids, true
}

func (s *ProductService) Create(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	product := &models.Product{}
	if err := s.apply(ctx, product, req); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, product, "product_created")
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, req transport.ProductRequest) (*models.Product, error) {
	product, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, product, req); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveProduct(ctx, product, true); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, product, "product_updated")
	return product, nil
}

func (s *ProductService) PartialUpdate(ctx context.Context, id int64, req transport.PatchProductRequest) (*models.Product, error) {
	product, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
		}
		product.Price = *req.Price
	}
	if req.Weight != nil {
		product.Weight = *req.Weight
	}
	if req.WeightUnit != nil {
		if !req.WeightUnit.Valid() {
			return nil, fmt.Errorf("unknown weight unit %q: %w", *req.WeightUnit, ErrValidation)
		}
		product.WeightUnit = *req.WeightUnit
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.ImagePath != nil {
		product.ImagePath = *req.ImagePath
	}
	replace := req.CategoryIDs != nil
	if replace {
		cats, err := s.categories(ctx, req.CategoryIDs)
		if err != nil {
			return nil, err
		}
		product.Categories = cats
	}

	if err := s.Repo.SaveProduct(ctx, product, replace); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, product, "product_updated")
	return product, nil
}

// Delete refuses with ErrConflict while a cart line still holds the product.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("product %d is in a cart: %w", id, ErrConflict)
		}
		return notFound(err, "product")
	}
	s.invalidateCarts(ctx, id)

	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("product_unindex_error", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProduct, strconv.FormatInt(id, 10), events.Event{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

func (s *ProductService) apply(ctx context.Context, product *models.Product, req transport.ProductRequest) error {
	if req.Price == nil {
		return fmt.Errorf("price is required: %w", ErrValidation)
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if req.WeightUnit != "" && !req.WeightUnit.Valid() {
		return fmt.Errorf("unknown weight unit %q: %w", req.WeightUnit, ErrValidation)
	}
	cats, err := s.categories(ctx, req.CategoryIDs)
	if err != nil {
		return err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = *req.Price
	product.Weight = req.Weight
	product.WeightUnit = req.WeightUnit
	product.Stock = req.Stock
	product.ImagePath = req.ImagePath
	product.Categories = cats
	return nil
}

func (s *ProductService) categories(ctx context.Context, ids []int64) ([]models.Category, error) {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	cats, err := s.Repo.GetCategoriesByID(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(cats) != len(unique) {
		return nil, fmt.Errorf("unknown category in %v: %w", unique, ErrValidation)
	}
	return cats, nil
}

func (s *ProductService) invalidateCarts(ctx context.Context, productID int64) {
	if s.Carts != nil {
		s.Carts.InvalidateProduct(ctx, productID)
	}
}

func (s *ProductService) afterWrite(ctx context.Context, product *models.Product, eventType string) {
	s.invalidateCarts(ctx, product.ID)
	if s.Search != nil {
		if err := s.Search.IndexProduct(ctx, product); err != nil {
			logging.FromContext(ctx).Warn("product_index_error", "product_id", product.ID, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProduct, strconv.FormatInt(product.ID, 10), events.Event{
		"type":      eventType,
		"productID": product.ID,
		"name":      product.Name,
		"price":     product.Price.String(),
	})
}
