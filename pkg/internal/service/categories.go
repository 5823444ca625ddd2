package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	ctxPkg "github.com/yeisme/geovault/pkg/context"
	"github.com/yeisme/geovault/pkg/internal/model"
	"github.com/yeisme/geovault/pkg/internal/storage/db"
	"github.com/yeisme/geovault/pkg/internal/types"
)

// CategoryResolver is the resolve-or-create step of dataset ingestion,
// kept behind an interface so dataset creation can be tested against a
// stub.
type CategoryResolver interface {
	// ResolveOrCreate finds a category by id, then by exact name, and
	// creates one named name when neither matches.
	ResolveOrCreate(ctx context.Context, id uint, name string) (*model.Category, error)
	// Resolve is the strict variant: it never creates.
	Resolve(ctx context.Context, id uint, name string) (*model.Category, error)
}

// CategoryService manages the named groupings datasets reference.
type CategoryService struct {
	dbClient *db.Client
}

// NewCategoryService resolves its dependencies from the request context.
func NewCategoryService(c context.Context) *CategoryService {
	return &CategoryService{dbClient: ctxPkg.GetDBClient(c)}
}

// ResolveOrCreate implements the ingestion-time category lookup: numeric id
// first, exact name match second, creation last.
func (s *CategoryService) ResolveOrCreate(ctx context.Context, id uint, name string) (*model.Category, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	if id != 0 {
		var category model.Category
		if err := dbx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}

			return nil, fmt.Errorf("failed to load category: %w", err)
		}

		return &category, nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNotFound
	}

	var category model.Category

	err := dbx.Where("name = ?", name).First(&category).Error
	if err == nil {
		return &category, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}

	category = model.Category{Name: name}
	if err := dbx.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &category, nil
}

// Resolve finds an existing category by id or exact name.
func (s *CategoryService) Resolve(ctx context.Context, id uint, name string) (*model.Category, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	var category model.Category

	if id != 0 {
		if err := dbx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}

			return nil, fmt.Errorf("failed to load category: %w", err)
		}

		return &category, nil
	}

	if err := dbx.Where("name = ?", strings.TrimSpace(name)).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}

		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	return &category, nil
}

// Create adds a category, rejecting duplicates by name.
func (s *CategoryService) Create(ctx context.Context, req *types.CreateCategoryRequest) (*types.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("invalid category name %q", req.Name)
	}

	dbx := s.dbClient.GetDB().WithContext(ctx)

	var count int64
	if err := dbx.Model(&model.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}

	if count > 0 {
		return nil, fmt.Errorf("category %q already exists", name)
	}

	category := model.Category{Name: name}
	if err := dbx.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &types.CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
	}, nil
}

// List returns every category with its dataset reference count.
func (s *CategoryService) List(ctx context.Context) (*types.ListCategoriesResponse, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	var categories []model.Category
	if err := dbx.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	resp := &types.ListCategoriesResponse{
		Categories: make([]types.CategoryResponse, 0, len(categories)),
	}

	for _, category := range categories {
		var count int64
		if err := dbx.Model(&model.Dataset{}).Where("category_id = ?", category.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count datasets: %w", err)
		}

		resp.Categories = append(resp.Categories, types.CategoryResponse{
			ID:           category.ID,
			Name:         category.Name,
			DatasetCount: count,
			CreatedAt:    category.CreatedAt,
		})
	}

	return resp, nil
}

// Delete removes a category. Blocked while any dataset references it.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	dbx := s.dbClient.GetDB().WithContext(ctx)

	var category model.Category
	if err := dbx.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}

		return fmt.Errorf("failed to load category: %w", err)
	}

	var count int64
	if err := dbx.Model(&model.Dataset{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count datasets: %w", err)
	}

	if count > 0 {
		return ErrCategoryInUse
	}

	if err := dbx.Delete(&model.Category{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}
