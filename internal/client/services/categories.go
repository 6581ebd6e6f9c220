package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/common"
	"github.com/dmitrijs2005/finkeeper/internal/logging"
)

// CategoryStore is the part of storage.Manager the CategoryManager uses.
type CategoryStore interface {
	GetCategories(ctx context.Context, userID string) []models.Category
	UpdateCategories(ctx context.Context, userID string, fn func(categories []models.Category) ([]models.Category, error)) error
}

var defaultCategories = []models.CategoryInput{
	{Name: "Bolsillo", Type: "Bolsillo"},
	{Name: "Tarjeta de Crédito", Type: "Tarjeta de Crédito"},
	{Name: "Meta de Ahorro", Type: "Meta"},
	{Name: "Resumen Total", Type: "Resumen"},
	{Name: "Pago de Vehículo", Type: "Pago Vehículo"},
	{Name: "Pago Rápido", Type: "Pago Rápido"},
}

type CategoryManager struct {
	store  CategoryStore
	logger logging.Logger
	now    func() time.Time
	randN  func(n int) int
}

func NewCategoryManager(store CategoryStore, logger logging.Logger) *CategoryManager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CategoryManager{
		store:  store,
		logger: logger.With("component", "categories"),
		now:    time.Now,
		randN:  rand.IntN,
	}
}

func (m *CategoryManager) GetCategories(ctx context.Context, userID string) []models.Category {
	return m.store.GetCategories(ctx, userID)
}

// GetCategoryByID returns nil when the user has no such category.
func (m *CategoryManager) GetCategoryByID(ctx context.Context, userID, id string) *models.Category {
	for _, c := range m.store.GetCategories(ctx, userID) {
		if c.ID == id {
			return &c
		}
	}
	return nil
}

func (m *CategoryManager) CreateCategory(ctx context.Context, userID string, in models.CategoryInput) (*models.Category, error) {
	if err := models.Validator().Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidCategory, err)
	}

	var created models.Category
	err := m.store.UpdateCategories(ctx, userID, func(categories []models.Category) ([]models.Category, error) {
		created = m.newCategory(categories, in)
		return append(categories, created), nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug(ctx, "category created", "user_id", userID, "category_id", created.ID)
	return &created, nil
}

// UpdateCategory applies the non-nil fields of upd. ID and CreatedAt are
// never changed.
func (m *CategoryManager) UpdateCategory(ctx context.Context, userID, id string, upd models.CategoryUpdate) (*models.Category, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrInvalidCategory)
	}
	if upd.Type != nil && *upd.Type == "" {
		return nil, fmt.Errorf("%w: type is required", common.ErrInvalidCategory)
	}

	var updated models.Category
	err := m.store.UpdateCategories(ctx, userID, func(categories []models.Category) ([]models.Category, error) {
		for i := range categories {
			if categories[i].ID != id {
				continue
			}
			c := &categories[i]
			if upd.Name != nil {
				c.Name = *upd.Name
			}
			if upd.Type != nil {
				c.Type = *upd.Type
			}
			if upd.Balance != nil {
				c.Balance = *upd.Balance
			}
			updated = *c
			return categories, nil
		}
		return nil, common.ErrCategoryNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (m *CategoryManager) DeleteCategory(ctx context.Context, userID, id string) error {
	return m.store.UpdateCategories(ctx, userID, func(categories []models.Category) ([]models.Category, error) {
		for i, c := range categories {
			if c.ID == id {
				return append(categories[:i], categories[i+1:]...), nil
			}
		}
		return nil, common.ErrCategoryNotFound
	})
}

// CreateDefaultCategories appends the starter categories to whatever the
// user already has.
func (m *CategoryManager) CreateDefaultCategories(ctx context.Context, userID string) ([]models.Category, error) {
	var created []models.Category
	err := m.store.UpdateCategories(ctx, userID, func(categories []models.Category) ([]models.Category, error) {
		created = created[:0]
		for _, in := range defaultCategories {
			c := m.newCategory(categories, in)
			categories = append(categories, c)
			created = append(created, c)
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info(ctx, "default categories created", "user_id", userID, "count", len(created))
	return created, nil
}

// newCategory builds a category whose id does not clash with existing.
func (m *CategoryManager) newCategory(existing []models.Category, in models.CategoryInput) models.Category {
	now := m.now()
	id := m.categoryID(now)
	for hasCategory(existing, id) {
		id = m.categoryID(now)
	}
	return models.Category{
		ID:        id,
		Name:      in.Name,
		Type:      in.Type,
		Balance:   in.Balance,
		CreatedAt: now.UTC(),
	}
}

func (m *CategoryManager) categoryID(now time.Time) string {
	return fmt.Sprintf("%d-%d", now.UnixMilli(), m.randN(1000))
}

func hasCategory(categories []models.Category, id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
