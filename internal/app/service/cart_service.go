package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/internal/app/repository"
	"github.com/ikkim/swapdonaterent-backend/pkg/logger"
	"github.com/ikkim/swapdonaterent-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartAccessDenied = errors.New("cart item access denied")
)

type CartService interface {
	GetOrCreateCart(userID uint) (*model.Cart, error)
	GetCartItems(userID uint) ([]model.CartItem, error)
	AddToCart(userID, itemID uint) (*model.CartItem, error)
	RemoveFromCart(userID, cartItemID uint) error
	ClearCart(userID uint) error
	CountItems(ctx context.Context, userID uint) (int64, error)
}

type cartService struct {
	cartRepo repository.CartRepository
	itemRepo repository.ItemRepository
}

func NewCartService(cartRepo repository.CartRepository, itemRepo repository.ItemRepository) CartService {
	return &cartService{
		cartRepo: cartRepo,
		itemRepo: itemRepo,
	}
}

// GetOrCreateCart returns the user's cart, creating it on first use.
// Carts come into being lazily: a user has none until they add
// something or open the cart page.
func (s *cartService) GetOrCreateCart(userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindCartByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Creating cart for user", map[string]interface{}{
		"user_id": userID,
	})

	cart = &model.Cart{UserID: userID}
	if err := s.cartRepo.CreateCart(cart); err != nil {
		// Two requests can race to create the first cart. The unique
		// index on user_id makes the loser fail, so re-read.
		if isDuplicateKeyError(err) {
			return s.cartRepo.FindCartByUserID(userID)
		}
		logger.Error("Failed to create cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return cart, nil
}

func (s *cartService) GetCartItems(userID uint) ([]model.CartItem, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	cartItems, err := s.cartRepo.FindCartItems(cart.ID)
	if err != nil {
		logger.Error("Failed to fetch cart items", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
		})
		return nil, err
	}

	logger.Info("User cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

func (s *cartService) AddToCart(userID, itemID uint) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id": userID,
		"item_id": itemID,
	})

	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: item not found", map[string]interface{}{
				"user_id": userID,
				"item_id": itemID,
			})
			return nil, ErrItemNotFound
		}
		logger.Error("Failed to fetch item", err, map[string]interface{}{
			"item_id": itemID,
		})
		return nil, err
	}

	// A deactivated listing is indistinguishable from a missing one.
	if !item.IsActive {
		logger.Warn("Cannot add to cart: item inactive", map[string]interface{}{
			"user_id": userID,
			"item_id": itemID,
		})
		return nil, ErrItemNotFound
	}

	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.FindCartItem(cart.ID, itemID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"cart_id": cart.ID,
			"item_id": itemID,
		})
		return nil, err
	}

	if existing != nil {
		// Adding the same item again bumps the quantity
		if err := s.cartRepo.IncrementQuantity(existing.ID, 1); err != nil {
			logger.Error("Failed to increment cart item quantity", err, map[string]interface{}{
				"cart_item_id": existing.ID,
			})
			return nil, err
		}
		redis.InvalidateCartCount(context.Background(), userID)
		return s.cartRepo.FindCartItemByID(existing.ID)
	}

	cartItem := &model.CartItem{
		CartID:   cart.ID,
		ItemID:   itemID,
		Quantity: 1,
	}
	if err := s.cartRepo.CreateCartItem(cartItem); err != nil {
		logger.Error("Failed to create cart item", err, map[string]interface{}{
			"cart_id": cart.ID,
			"item_id": itemID,
		})
		return nil, err
	}

	redis.InvalidateCartCount(context.Background(), userID)

	logger.Info("Cart item added successfully", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"user_id":      userID,
	})
	return s.cartRepo.FindCartItemByID(cartItem.ID)
}

// RemoveFromCart deletes an entry from the user's cart.
// Accessing someone else's cart entry is forbidden rather than hidden.
func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})

	cartItem, err := s.cartRepo.FindCartItemByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found for removal", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item for removal", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	cart, err := s.cartRepo.FindCartByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartAccessDenied
		}
		return err
	}

	if cartItem.CartID != cart.ID {
		logger.Warn("Cart item removal denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"cart_id":      cartItem.CartID,
		})
		return ErrCartAccessDenied
	}

	if err := s.cartRepo.DeleteCartItem(cartItemID); err != nil {
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	redis.InvalidateCartCount(context.Background(), userID)

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.cartRepo.FindCartByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nothing to clear
			return nil
		}
		return err
	}

	if err := s.cartRepo.DeleteByCartID(cart.ID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
		})
		return err
	}

	redis.InvalidateCartCount(context.Background(), userID)

	logger.Info("User cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// CountItems returns the number of distinct entries in the user's cart
// for the header badge. Reading the count never creates a cart.
func (s *cartService) CountItems(ctx context.Context, userID uint) (int64, error) {
	if count, ok := redis.GetCachedCartCount(ctx, userID); ok {
		return count, nil
	}

	cart, err := s.cartRepo.FindCartByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		logger.Error("Failed to fetch cart for count", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, err
	}

	count, err := s.cartRepo.CountItems(cart.ID)
	if err != nil {
		return 0, err
	}

	redis.CacheCartCount(ctx, userID, count)
	return count, nil
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
