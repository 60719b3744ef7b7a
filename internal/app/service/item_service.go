package service

import (
	"errors"

	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/internal/app/repository"
	"github.com/ikkim/swapdonaterent-backend/pkg/logger"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrItemAccessDenied = errors.New("item access denied")
	ErrInvalidItemType  = errors.New("invalid item type")
	ErrCategoryNotFound = errors.New("category not found")
)

type CreateItemInput struct {
	CategoryID  uint
	ItemType    model.ItemType
	Name        string
	Description string
	Price       *float64
	Condition   model.ItemCondition
	Location    string
	ContactInfo string
	ImageURL    string
	ExtraImages []string
}

type UpdateItemInput struct {
	CategoryID  *uint
	ItemType    *model.ItemType
	Name        *string
	Description *string
	Price       *float64
	Condition   *model.ItemCondition
	Location    *string
	ContactInfo *string
	ImageURL    *string
	ExtraImages []string
	IsActive    *bool
}

type ItemService interface {
	ListItems(filter repository.ItemFilter) ([]model.Item, error)
	GetItem(id uint) (*model.Item, error)
	GetFeaturedItems(limit int) ([]model.Item, error)
	GetMyItems(ownerID uint) ([]model.Item, error)
	CreateItem(ownerID uint, input CreateItemInput) (*model.Item, error)
	UpdateItem(ownerID, itemID uint, input UpdateItemInput) (*model.Item, error)
	DeleteItem(ownerID, itemID uint) error
	ListCategories() ([]model.Category, error)
	GetCategory(id uint) (*model.Category, error)
}

type itemService struct {
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
}

func NewItemService(itemRepo repository.ItemRepository, categoryRepo repository.CategoryRepository) ItemService {
	return &itemService{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *itemService) ListItems(filter repository.ItemFilter) ([]model.Item, error) {
	logger.Debug("Listing items", map[string]interface{}{
		"type":        filter.Type,
		"category_id": filter.CategoryID,
		"search":      filter.Search,
		"sort_by":     filter.SortBy,
	})

	// Public browsing never shows deactivated listings
	filter.IncludeInactive = false

	items, err := s.itemRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list items", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	logger.Info("Items listed successfully", map[string]interface{}{
		"count": len(items),
	})
	return items, nil
}

func (s *itemService) GetItem(id uint) (*model.Item, error) {
	logger.Debug("Fetching item", map[string]interface{}{
		"item_id": id,
	})

	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Item not found", map[string]interface{}{
				"item_id": id,
			})
			return nil, ErrItemNotFound
		}
		logger.Error("Failed to fetch item", err, map[string]interface{}{
			"item_id": id,
		})
		return nil, err
	}

	// Deactivated listings are hidden from the public detail page
	if !item.IsActive {
		logger.Warn("Item is inactive", map[string]interface{}{
			"item_id": id,
		})
		return nil, ErrItemNotFound
	}

	return item, nil
}

func (s *itemService) GetFeaturedItems(limit int) ([]model.Item, error) {
	if limit <= 0 {
		limit = 8
	}

	items, err := s.itemRepo.FindFeatured(limit)
	if err != nil {
		logger.Error("Failed to fetch featured items", err, map[string]interface{}{
			"limit": limit,
		})
		return nil, err
	}
	return items, nil
}

func (s *itemService) GetMyItems(ownerID uint) ([]model.Item, error) {
	logger.Debug("Fetching user's items", map[string]interface{}{
		"owner_id": ownerID,
	})

	items, err := s.itemRepo.FindByOwner(ownerID)
	if err != nil {
		logger.Error("Failed to fetch user's items", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}
	return items, nil
}

func (s *itemService) CreateItem(ownerID uint, input CreateItemInput) (*model.Item, error) {
	logger.Info("Creating item", map[string]interface{}{
		"owner_id":    ownerID,
		"name":        input.Name,
		"item_type":   input.ItemType,
		"category_id": input.CategoryID,
	})

	if !input.ItemType.Valid() {
		logger.Warn("Invalid item type", map[string]interface{}{
			"item_type": input.ItemType,
		})
		return nil, ErrInvalidItemType
	}

	if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Category not found for item", map[string]interface{}{
				"category_id": input.CategoryID,
			})
			return nil, ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category", err, map[string]interface{}{
			"category_id": input.CategoryID,
		})
		return nil, err
	}

	// Price is nullable on every type. A rental without one means the
	// rate is up for negotiation.
	condition := input.Condition
	if condition == "" {
		condition = model.ConditionGood
	}

	item := &model.Item{
		OwnerID:     ownerID,
		CategoryID:  input.CategoryID,
		ItemType:    input.ItemType,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Condition:   condition,
		Location:    input.Location,
		ContactInfo: input.ContactInfo,
		ImageURL:    input.ImageURL,
		ExtraImages: pq.StringArray(input.ExtraImages),
		IsActive:    true,
	}

	if err := s.itemRepo.Create(item); err != nil {
		logger.Error("Failed to create item", err, map[string]interface{}{
			"owner_id": ownerID,
			"name":     input.Name,
		})
		return nil, err
	}

	logger.Info("Item created successfully", map[string]interface{}{
		"item_id":  item.ID,
		"owner_id": ownerID,
	})
	return s.itemRepo.FindByID(item.ID)
}

func (s *itemService) UpdateItem(ownerID, itemID uint, input UpdateItemInput) (*model.Item, error) {
	logger.Info("Updating item", map[string]interface{}{
		"item_id":  itemID,
		"owner_id": ownerID,
	})

	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		logger.Error("Failed to fetch item for update", err, map[string]interface{}{
			"item_id": itemID,
		})
		return nil, err
	}

	if item.OwnerID != ownerID {
		logger.Warn("Item update denied: ownership mismatch", map[string]interface{}{
			"item_id":  itemID,
			"owner_id": item.OwnerID,
			"user_id":  ownerID,
		})
		return nil, ErrItemAccessDenied
	}

	if input.ItemType != nil {
		if !input.ItemType.Valid() {
			return nil, ErrInvalidItemType
		}
		item.ItemType = *input.ItemType
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		item.CategoryID = *input.CategoryID
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Price != nil {
		item.Price = input.Price
	}
	if input.Condition != nil {
		item.Condition = *input.Condition
	}
	if input.Location != nil {
		item.Location = *input.Location
	}
	if input.ContactInfo != nil {
		item.ContactInfo = *input.ContactInfo
	}
	if input.ImageURL != nil {
		item.ImageURL = *input.ImageURL
	}
	if input.ExtraImages != nil {
		item.ExtraImages = pq.StringArray(input.ExtraImages)
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if err := s.itemRepo.Update(item); err != nil {
		logger.Error("Failed to update item", err, map[string]interface{}{
			"item_id": itemID,
		})
		return nil, err
	}

	logger.Info("Item updated successfully", map[string]interface{}{
		"item_id": itemID,
	})
	return s.itemRepo.FindByID(itemID)
}

func (s *itemService) DeleteItem(ownerID, itemID uint) error {
	logger.Info("Deleting item", map[string]interface{}{
		"item_id":  itemID,
		"owner_id": ownerID,
	})

	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		logger.Error("Failed to fetch item for deletion", err, map[string]interface{}{
			"item_id": itemID,
		})
		return err
	}

	if item.OwnerID != ownerID {
		logger.Warn("Item deletion denied: ownership mismatch", map[string]interface{}{
			"item_id":  itemID,
			"owner_id": item.OwnerID,
			"user_id":  ownerID,
		})
		return ErrItemAccessDenied
	}

	if err := s.itemRepo.Delete(itemID); err != nil {
		logger.Error("Failed to delete item", err, map[string]interface{}{
			"item_id": itemID,
		})
		return err
	}

	logger.Info("Item deleted successfully", map[string]interface{}{
		"item_id": itemID,
	})
	return nil
}

func (s *itemService) ListCategories() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (s *itemService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}
	return category, nil
}
