package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/internal/app/repository"
	"github.com/ikkim/swapdonaterent-backend/internal/app/service"
	apperrors "github.com/ikkim/swapdonaterent-backend/internal/errors"
	"github.com/ikkim/swapdonaterent-backend/internal/middleware"
)

type ItemController struct {
	itemService service.ItemService
}

func NewItemController(itemService service.ItemService) *ItemController {
	return &ItemController{itemService: itemService}
}

type CreateItemRequest struct {
	CategoryID  uint     `json:"category_id" binding:"required"`
	ItemType    string   `json:"item_type" binding:"required,oneof=swap donate rent"`
	Name        string   `json:"name" binding:"required,max=200"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Condition   string   `json:"condition" binding:"omitempty,oneof=new like_new good fair poor"`
	Location    string   `json:"location"`
	ContactInfo string   `json:"contact_info"`
	ImageURL    string   `json:"image_url"`
	ExtraImages []string `json:"extra_images"`
}

type UpdateItemRequest struct {
	CategoryID  *uint    `json:"category_id"`
	ItemType    *string  `json:"item_type" binding:"omitempty,oneof=swap donate rent"`
	Name        *string  `json:"name" binding:"omitempty,max=200"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Condition   *string  `json:"condition" binding:"omitempty,oneof=new like_new good fair poor"`
	Location    *string  `json:"location"`
	ContactInfo *string  `json:"contact_info"`
	ImageURL    *string  `json:"image_url"`
	ExtraImages []string `json:"extra_images"`
	IsActive    *bool    `json:"is_active"`
}

// ListItems returns active listings with optional filters
// GET /api/v1/items?type=&category=&search=&sort=&limit=&offset=
func (ctrl *ItemController) ListItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ItemFilter{
		Search: c.Query("search"),
		SortBy: repository.ParseItemSort(c.Query("sort")),
	}

	// Browse filters never fail the request. An unknown type simply
	// matches nothing and a malformed category is ignored, same as an
	// unknown sort falling back to newest.
	if typeParam := c.Query("type"); typeParam != "" {
		itemType := model.ItemType(typeParam)
		filter.Type = &itemType
	}

	if categoryParam := c.Query("category"); categoryParam != "" {
		if categoryID, err := strconv.ParseUint(categoryParam, 10, 32); err == nil {
			id := uint(categoryID)
			filter.CategoryID = &id
		}
	}

	if limitParam := c.Query("limit"); limitParam != "" {
		if limit, err := strconv.Atoi(limitParam); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if offsetParam := c.Query("offset"); offsetParam != "" {
		if offset, err := strconv.Atoi(offsetParam); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}

	items, err := ctrl.itemService.ListItems(filter)
	if err != nil {
		log.Error("Failed to list items", err, map[string]interface{}{
			"search": filter.Search,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetItem returns a single active listing
// GET /api/v1/items/:id
func (ctrl *ItemController) GetItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid item ID")
		return
	}

	item, err := ctrl.itemService.GetItem(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, apperrors.ItemNotFound, "Listing not found")
			return
		}
		log.Error("Failed to fetch item", err, map[string]interface{}{
			"item_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item": item,
	})
}

// GetFeaturedItems returns the latest listings for the landing page
// GET /api/v1/items/featured
func (ctrl *ItemController) GetFeaturedItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit := 8
	if limitParam := c.Query("limit"); limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	items, err := ctrl.itemService.GetFeaturedItems(limit)
	if err != nil {
		log.Error("Failed to fetch featured items", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get featured items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
	})
}

// GetMyItems returns all of the caller's listings, including inactive ones
// GET /api/v1/items/mine
func (ctrl *ItemController) GetMyItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login is required")
		return
	}

	items, err := ctrl.itemService.GetMyItems(userID)
	if err != nil {
		log.Error("Failed to fetch user's items", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get my items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// CreateItem creates a new listing owned by the caller
// POST /api/v1/items
func (ctrl *ItemController) CreateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login is required")
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create item request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The submitted information is not valid")
		return
	}

	item, err := ctrl.itemService.CreateItem(userID, service.CreateItemInput{
		CategoryID:  req.CategoryID,
		ItemType:    model.ItemType(req.ItemType),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Condition:   model.ItemCondition(req.Condition),
		Location:    req.Location,
		ContactInfo: req.ContactInfo,
		ImageURL:    req.ImageURL,
		ExtraImages: req.ExtraImages,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidItemType):
			apperrors.BadRequest(c, apperrors.ItemInvalidType, "Unknown listing type")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		default:
			log.Error("Failed to create item", err, map[string]interface{}{
				"user_id": userID,
				"name":    req.Name,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create item")
		}
		return
	}

	log.Info("Item created", map[string]interface{}{
		"item_id": item.ID,
		"user_id": userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Listing created successfully",
		"item":    item,
	})
}

// UpdateItem updates a listing the caller owns
// PUT /api/v1/items/:id
func (ctrl *ItemController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login is required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid item ID")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update item request", map[string]interface{}{
			"user_id": userID,
			"item_id": id,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The submitted information is not valid")
		return
	}

	input := service.UpdateItemInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		ContactInfo: req.ContactInfo,
		ImageURL:    req.ImageURL,
		ExtraImages: req.ExtraImages,
		IsActive:    req.IsActive,
	}
	if req.ItemType != nil {
		itemType := model.ItemType(*req.ItemType)
		input.ItemType = &itemType
	}
	if req.Condition != nil {
		condition := model.ItemCondition(*req.Condition)
		input.Condition = &condition
	}

	item, err := ctrl.itemService.UpdateItem(userID, uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			apperrors.NotFound(c, apperrors.ItemNotFound, "Listing not found")
		case errors.Is(err, service.ErrItemAccessDenied):
			apperrors.Forbidden(c, "Only the owner can edit this listing")
		case errors.Is(err, service.ErrInvalidItemType):
			apperrors.BadRequest(c, apperrors.ItemInvalidType, "Unknown listing type")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		default:
			log.Error("Failed to update item", err, map[string]interface{}{
				"item_id": id,
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update item")
		}
		return
	}

	log.Info("Item updated", map[string]interface{}{
		"item_id": item.ID,
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Listing updated successfully",
		"item":    item,
	})
}

// DeleteItem removes a listing the caller owns
// DELETE /api/v1/items/:id
func (ctrl *ItemController) DeleteItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login is required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid item ID")
		return
	}

	if err := ctrl.itemService.DeleteItem(userID, uint(id)); err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			apperrors.NotFound(c, apperrors.ItemNotFound, "Listing not found")
		case errors.Is(err, service.ErrItemAccessDenied):
			apperrors.Forbidden(c, "Only the owner can delete this listing")
		default:
			log.Error("Failed to delete item", err, map[string]interface{}{
				"item_id": id,
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete item")
		}
		return
	}

	log.Info("Item deleted", map[string]interface{}{
		"item_id": id,
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Listing deleted successfully",
	})
}
