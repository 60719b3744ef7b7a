package repository

import (
	"fmt"
	"strings"

	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/pkg/logger"
	"gorm.io/gorm"
)

type ItemSort string

const (
	ItemSortNewest       ItemSort = "newest"
	ItemSortOldest       ItemSort = "oldest"
	ItemSortPriceLowHigh ItemSort = "price_low_high"
	ItemSortPriceHighLow ItemSort = "price_high_low"
)

// ParseItemSort maps a query-string sort value to an ItemSort,
// falling back to newest for unknown values.
func ParseItemSort(value string) ItemSort {
	switch ItemSort(value) {
	case ItemSortOldest, ItemSortPriceLowHigh, ItemSortPriceHighLow:
		return ItemSort(value)
	default:
		return ItemSortNewest
	}
}

type ItemFilter struct {
	Type            *model.ItemType
	CategoryID      *uint
	OwnerID         *uint
	Search          string
	SortBy          ItemSort
	Limit           int
	Offset          int
	IncludeInactive bool
}

type ItemRepository interface {
	Create(item *model.Item) error
	FindWithFilter(filter ItemFilter) ([]model.Item, error)
	FindByID(id uint) (*model.Item, error)
	FindByOwner(ownerID uint) ([]model.Item, error)
	FindFeatured(limit int) ([]model.Item, error)
	Update(item *model.Item) error
	Delete(id uint) error
	BulkCreate(items []model.Item, batchSize int) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(item *model.Item) error {
	logger.Debug("Creating item in database", map[string]interface{}{
		"name":        item.Name,
		"item_type":   item.ItemType,
		"category_id": item.CategoryID,
		"owner_id":    item.OwnerID,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create item in database", err, map[string]interface{}{
			"name":      item.Name,
			"item_type": item.ItemType,
			"owner_id":  item.OwnerID,
		})
		return err
	}

	logger.Debug("Item created in database", map[string]interface{}{
		"item_id":  item.ID,
		"name":     item.Name,
		"owner_id": item.OwnerID,
	})
	return nil
}

func (r *itemRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Item{}).
		Preload("Owner").
		Preload("Category")
}

func (r *itemRepository) FindWithFilter(filter ItemFilter) ([]model.Item, error) {
	logger.Debug("Finding items with filter", map[string]interface{}{
		"type":        filter.Type,
		"category_id": filter.CategoryID,
		"owner_id":    filter.OwnerID,
		"search":      filter.Search,
		"sort_by":     filter.SortBy,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.baseQuery()

	if !filter.IncludeInactive {
		query = query.Where("items.is_active = ?", true)
	}

	if filter.Type != nil {
		query = query.Where("items.item_type = ?", *filter.Type)
	}

	if filter.CategoryID != nil {
		query = query.Where("items.category_id = ?", *filter.CategoryID)
	}

	if filter.OwnerID != nil {
		query = query.Where("items.owner_id = ?", *filter.OwnerID)
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", strings.ToLower(filter.Search))
		query = query.Where("LOWER(items.name) LIKE ? OR LOWER(items.description) LIKE ?", like, like)
	}

	switch filter.SortBy {
	case ItemSortPriceLowHigh:
		query = query.Order("items.price ASC")
		query = query.Order("items.created_at DESC")
	case ItemSortPriceHighLow:
		query = query.Order("items.price DESC")
		query = query.Order("items.created_at DESC")
	case ItemSortOldest:
		query = query.Order("items.created_at ASC")
	case ItemSortNewest:
		fallthrough
	default:
		query = query.Order("items.created_at DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []model.Item
	if err := query.Find(&items).Error; err != nil {
		logger.Error("Failed to find items with filter", err, map[string]interface{}{
			"type":   filter.Type,
			"search": filter.Search,
		})
		return nil, err
	}

	logger.Debug("Items found with filter", map[string]interface{}{
		"count": len(items),
	})
	return items, nil
}

func (r *itemRepository) FindByID(id uint) (*model.Item, error) {
	logger.Debug("Finding item by ID in database", map[string]interface{}{
		"item_id": id,
	})

	var item model.Item
	err := r.baseQuery().First(&item, id).Error
	if err != nil {
		logger.Error("Failed to find item by ID in database", err, map[string]interface{}{
			"item_id": id,
		})
		return nil, err
	}

	logger.Debug("Item found by ID in database", map[string]interface{}{
		"item_id":  item.ID,
		"name":     item.Name,
		"owner_id": item.OwnerID,
	})
	return &item, nil
}

func (r *itemRepository) FindByOwner(ownerID uint) ([]model.Item, error) {
	logger.Debug("Finding items by owner in database", map[string]interface{}{
		"owner_id": ownerID,
	})

	var items []model.Item
	err := r.baseQuery().
		Where("items.owner_id = ?", ownerID).
		Order("items.created_at DESC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find items by owner in database", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}

	logger.Debug("Items found by owner in database", map[string]interface{}{
		"owner_id": ownerID,
		"count":    len(items),
	})
	return items, nil
}

func (r *itemRepository) FindFeatured(limit int) ([]model.Item, error) {
	logger.Debug("Finding featured items in database", map[string]interface{}{
		"limit": limit,
	})

	var items []model.Item
	err := r.baseQuery().
		Where("items.is_active = ?", true).
		Order("items.created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find featured items in database", err, map[string]interface{}{
			"limit": limit,
		})
		return nil, err
	}

	logger.Debug("Featured items found in database", map[string]interface{}{
		"count": len(items),
	})
	return items, nil
}

func (r *itemRepository) Update(item *model.Item) error {
	logger.Debug("Updating item in database", map[string]interface{}{
		"item_id":  item.ID,
		"name":     item.Name,
		"owner_id": item.OwnerID,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update item in database", err, map[string]interface{}{
			"item_id":  item.ID,
			"owner_id": item.OwnerID,
		})
		return err
	}

	logger.Debug("Item updated in database", map[string]interface{}{
		"item_id": item.ID,
		"name":    item.Name,
	})
	return nil
}

func (r *itemRepository) Delete(id uint) error {
	logger.Debug("Deleting item from database", map[string]interface{}{
		"item_id": id,
	})

	if err := r.db.Delete(&model.Item{}, id).Error; err != nil {
		logger.Error("Failed to delete item from database", err, map[string]interface{}{
			"item_id": id,
		})
		return err
	}

	logger.Debug("Item deleted from database", map[string]interface{}{
		"item_id": id,
	})
	return nil
}

// BulkCreate inserts listings in batches, used by the import tool.
func (r *itemRepository) BulkCreate(items []model.Item, batchSize int) error {
	logger.Info("Bulk creating items in database", map[string]interface{}{
		"count":      len(items),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(items, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create items in database", err, map[string]interface{}{
			"count": len(items),
		})
		return err
	}

	logger.Info("Bulk item creation completed", map[string]interface{}{
		"count": len(items),
	})
	return nil
}
