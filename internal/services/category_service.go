package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

type (
	CategoryInput struct {
		Name  string
		Type  core.CategoryType
		Icon  string
		Color string
	}

	CategoryPatch struct {
		Name  *string
		Type  *core.CategoryType
		Icon  *string
		Color *string
	}
)

// CategoryService is the registry of shared default and user-owned categories.
type CategoryService struct {
	repo  store.CategoryRepository
	cache cache.Cache[[]core.Category]
	now   Clock
}

// NewCategoryService wires the registry. A nil cache disables list caching.
func NewCategoryService(repo store.CategoryRepository, c cache.Cache[[]core.Category]) *CategoryService {
	return &CategoryService{repo: repo, cache: c, now: systemClock}
}

func cacheKey(userID string, typ core.CategoryType) string {
	return userID + "|" + string(typ)
}

// List returns the user's categories plus shared defaults, optionally by type.
func (s *CategoryService) List(ctx context.Context, userID string, typ core.CategoryType) ([]core.Category, error) {
	if typ != "" && !typ.Valid() {
		return nil, core.Validationf("type", "invalid category type %q: must be income or expense", typ)
	}

	key := cacheKey(userID, typ)
	if s.cache != nil {
		if cats, ok := s.cache.Get(key); ok {
			return cats, nil
		}
	}

	cats, err := s.repo.ListCategories(ctx, userID, typ)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(key, cats)
	}
	return cats, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, id string) (core.Category, error) {
	c, err := s.repo.GetCategory(ctx, userID, id)
	if err != nil {
		return core.Category{}, lookupErr("category", err)
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, userID string, in CategoryInput) (core.Category, error) {
	now := s.now()
	c := core.Category{
		ID:          newID(),
		Name:        strings.TrimSpace(in.Name),
		Type:        in.Type,
		Icon:        in.Icon,
		Color:       in.Color,
		OwnerUserID: userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.checkNameFree(ctx, userID, c); err != nil {
		return core.Category{}, err
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return core.Category{}, saveErr("category", err)
	}

	s.invalidate(userID)
	slog.InfoContext(ctx, "Category created", "id", c.ID, "name", c.Name, "type", c.Type)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id string, p CategoryPatch) (core.Category, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return core.Category{}, err
	}
	if c.IsShared() {
		return core.Category{}, core.Validation("id", "default categories cannot be modified")
	}

	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	c.UpdatedAt = s.now()

	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.checkNameFree(ctx, userID, c); err != nil {
		return core.Category{}, err
	}
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return core.Category{}, saveErr("category", err)
	}

	s.invalidate(userID)
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if c.IsDefault || c.IsShared() {
		return core.Validation("id", "default categories cannot be deleted")
	}
	if err := s.repo.DeleteCategory(ctx, userID, id); err != nil {
		return lookupErr("category", err)
	}

	s.invalidate(userID)
	slog.InfoContext(ctx, "Category deleted", "id", id)
	return nil
}

// checkNameFree enforces name uniqueness across the user's scope, shared
// defaults included.
func (s *CategoryService) checkNameFree(ctx context.Context, userID string, c core.Category) error {
	existing, err := s.repo.ListCategories(ctx, userID, "")
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	for _, other := range existing {
		if other.ID != c.ID && strings.EqualFold(other.Name, c.Name) {
			return core.Conflict(fmt.Sprintf("category %q already exists", c.Name), core.ErrDuplicate)
		}
	}
	return nil
}

func (s *CategoryService) invalidate(userID string) {
	if s.cache != nil {
		s.cache.DeletePrefix(userID + "|")
	}
}
