package repository

import (
	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	CreateCart(cart *model.Cart) error
	FindCartByUserID(userID uint) (*model.Cart, error)
	FindCartItems(cartID uint) ([]model.CartItem, error)
	FindCartItemByID(id uint) (*model.CartItem, error)
	FindCartItem(cartID, itemID uint) (*model.CartItem, error)
	CreateCartItem(cartItem *model.CartItem) error
	IncrementQuantity(cartItemID uint, delta int) error
	DeleteCartItem(id uint) error
	DeleteByCartID(cartID uint) error
	CountItems(cartID uint) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) CreateCart(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id": cart.UserID,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

func (r *cartRepository) FindCartByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Finding cart by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	err := r.db.Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart by user ID in database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	logger.Debug("Cart found by user ID in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
	})
	return &cart, nil
}

func (r *cartRepository) FindCartItems(cartID uint) ([]model.CartItem, error) {
	logger.Debug("Finding cart items in database", map[string]interface{}{
		"cart_id": cartID,
	})

	var cartItems []model.CartItem
	err := r.db.Where("cart_id = ?", cartID).
		Preload("Item").
		Preload("Item.Owner").
		Preload("Item.Category").
		Order("added_at ASC").
		Find(&cartItems).Error
	if err != nil {
		logger.Error("Failed to find cart items in database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}

	logger.Debug("Cart items found in database", map[string]interface{}{
		"cart_id": cartID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

func (r *cartRepository) FindCartItemByID(id uint) (*model.CartItem, error) {
	logger.Debug("Finding cart item by ID in database", map[string]interface{}{
		"cart_item_id": id,
	})

	var cartItem model.CartItem
	err := r.db.Preload("Item").First(&cartItem, id).Error
	if err != nil {
		logger.Error("Failed to find cart item by ID in database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return nil, err
	}

	logger.Debug("Cart item found by ID in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"cart_id":      cartItem.CartID,
		"item_id":      cartItem.ItemID,
	})
	return &cartItem, nil
}

func (r *cartRepository) FindCartItem(cartID, itemID uint) (*model.CartItem, error) {
	logger.Debug("Finding cart item by cart and item in database", map[string]interface{}{
		"cart_id": cartID,
		"item_id": itemID,
	})

	var cartItem model.CartItem
	err := r.db.Where("cart_id = ? AND item_id = ?", cartID, itemID).
		First(&cartItem).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart item by cart and item in database", err, map[string]interface{}{
				"cart_id": cartID,
				"item_id": itemID,
			})
		}
		return nil, err
	}

	logger.Debug("Cart item found by cart and item in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"cart_id":      cartID,
		"item_id":      itemID,
	})
	return &cartItem, nil
}

func (r *cartRepository) CreateCartItem(cartItem *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id":  cartItem.CartID,
		"item_id":  cartItem.ItemID,
		"quantity": cartItem.Quantity,
	})

	if err := r.db.Create(cartItem).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id": cartItem.CartID,
			"item_id": cartItem.ItemID,
		})
		return err
	}

	logger.Debug("Cart item created in database", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"cart_id":      cartItem.CartID,
		"item_id":      cartItem.ItemID,
	})
	return nil
}

// IncrementQuantity adjusts the quantity atomically so concurrent adds
// of the same item never lose an increment.
func (r *cartRepository) IncrementQuantity(cartItemID uint, delta int) error {
	logger.Debug("Incrementing cart item quantity in database", map[string]interface{}{
		"cart_item_id": cartItemID,
		"delta":        delta,
	})

	err := r.db.Model(&model.CartItem{}).Where("id = ?", cartItemID).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
	if err != nil {
		logger.Error("Failed to increment cart item quantity in database", err, map[string]interface{}{
			"cart_item_id": cartItemID,
			"delta":        delta,
		})
		return err
	}

	logger.Debug("Cart item quantity incremented in database", map[string]interface{}{
		"cart_item_id": cartItemID,
		"delta":        delta,
	})
	return nil
}

func (r *cartRepository) DeleteCartItem(id uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": id,
	})

	if err := r.db.Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}

	logger.Debug("Cart item deleted from database", map[string]interface{}{
		"cart_item_id": id,
	})
	return nil
}

func (r *cartRepository) DeleteByCartID(cartID uint) error {
	logger.Debug("Deleting cart items by cart ID from database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items by cart ID from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}

	logger.Debug("Cart items deleted by cart ID from database", map[string]interface{}{
		"cart_id": cartID,
	})
	return nil
}

func (r *cartRepository) CountItems(cartID uint) (int64, error) {
	logger.Debug("Counting cart items in database", map[string]interface{}{
		"cart_id": cartID,
	})

	var count int64
	err := r.db.Model(&model.CartItem{}).Where("cart_id = ?", cartID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count cart items in database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return 0, err
	}

	logger.Debug("Cart items counted in database", map[string]interface{}{
		"cart_id": cartID,
		"count":   count,
	})
	return count, nil
}
