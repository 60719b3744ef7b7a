package service

import (
	"context"
	"testing"

	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/internal/app/repository"
	"github.com/ikkim/swapdonaterent-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *gorm.DB, *model.User, *model.Item) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	cartRepo := repository.NewCartRepository(testDB)
	itemRepo := repository.NewItemRepository(testDB)
	cartService := NewCartService(cartRepo, itemRepo)

	user := &model.User{
		Email:        "shopper@example.com",
		PasswordHash: "hash",
		Name:         "Shopper",
		Nickname:     "shopper",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	owner := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		Name:         "Owner",
		Nickname:     "owner",
		Role:         model.RoleUser,
	}
	testDB.Create(owner)

	category := &model.Category{Name: "Electronics"}
	testDB.Create(category)

	item := &model.Item{
		OwnerID:    owner.ID,
		CategoryID: category.ID,
		ItemType:   model.ItemTypeSwap,
		Name:       "Film Camera",
		IsActive:   true,
	}
	testDB.Create(item)

	return cartService, testDB, user, item
}

func TestCartService_GetOrCreateCart(t *testing.T) {
	cartService, testDB, user, _ := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	// First call creates the cart
	cart, err := cartService.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Equal(t, user.ID, cart.UserID)

	// Second call returns the same cart
	again, err := cartService.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartService_AddToCart(t *testing.T) {
	cartService, testDB, user, item := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem, err := cartService.AddToCart(user.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cartItem.Quantity)

	// Adding the same item again increments the quantity
	cartItem, err = cartService.AddToCart(user.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cartItem.Quantity)

	// Still a single cart entry
	cartItems, err := cartService.GetCartItems(user.ID)
	require.NoError(t, err)
	require.Len(t, cartItems, 1)
	assert.Equal(t, "Film Camera", cartItems[0].Item.Name)
}

func TestCartService_AddToCart_ItemNotFound(t *testing.T) {
	cartService, testDB, user, _ := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := cartService.AddToCart(user.ID, 9999)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCartService_AddToCart_InactiveItem(t *testing.T) {
	cartService, testDB, user, item := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	testDB.Model(item).Update("is_active", false)

	_, err := cartService.AddToCart(user.ID, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCartService_RemoveFromCart(t *testing.T) {
	cartService, testDB, user, item := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem, err := cartService.AddToCart(user.ID, item.ID)
	require.NoError(t, err)

	err = cartService.RemoveFromCart(user.ID, cartItem.ID)
	assert.NoError(t, err)

	cartItems, _ := cartService.GetCartItems(user.ID)
	assert.Len(t, cartItems, 0)
}

func TestCartService_RemoveFromCart_Errors(t *testing.T) {
	cartService, testDB, user, item := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	t.Run("missing entry", func(t *testing.T) {
		err := cartService.RemoveFromCart(user.ID, 9999)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})

	t.Run("someone else's entry", func(t *testing.T) {
		cartItem, err := cartService.AddToCart(user.ID, item.ID)
		require.NoError(t, err)

		stranger := &model.User{
			Email:        "stranger@example.com",
			PasswordHash: "hash",
			Name:         "Stranger",
			Nickname:     "stranger",
			Role:         model.RoleUser,
		}
		testDB.Create(stranger)

		err = cartService.RemoveFromCart(stranger.ID, cartItem.ID)
		assert.ErrorIs(t, err, ErrCartAccessDenied)

		// The entry is untouched
		cartItems, _ := cartService.GetCartItems(user.ID)
		assert.Len(t, cartItems, 1)
	})
}

func TestCartService_CountItems(t *testing.T) {
	cartService, testDB, user, item := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	ctx := context.Background()

	// Counting never creates a cart
	count, err := cartService.CountItems(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	var carts int64
	testDB.Model(&model.Cart{}).Count(&carts)
	assert.Equal(t, int64(0), carts)

	// Repeat adds of one item still count as a single entry
	_, err = cartService.AddToCart(user.ID, item.ID)
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, item.ID)
	require.NoError(t, err)

	count, err = cartService.CountItems(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, testDB, user, item := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := cartService.AddToCart(user.ID, item.ID)
	require.NoError(t, err)

	err = cartService.ClearCart(user.ID)
	assert.NoError(t, err)

	cartItems, _ := cartService.GetCartItems(user.ID)
	assert.Len(t, cartItems, 0)

	// Clearing a user with no cart is fine
	err = cartService.ClearCart(9999)
	assert.NoError(t, err)
}
