package service

import (
	"testing"

	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/internal/app/repository"
	"github.com/ikkim/swapdonaterent-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupItemServiceTest(t *testing.T) (ItemService, *gorm.DB, *model.User, *model.Category) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	itemRepo := repository.NewItemRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	itemService := NewItemService(itemRepo, categoryRepo)

	user := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		Name:         "Owner",
		Nickname:     "owner",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	category := &model.Category{Name: "Sports & Outdoors"}
	testDB.Create(category)

	return itemService, testDB, user, category
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestItemService_CreateItem(t *testing.T) {
	itemService, testDB, user, category := setupItemServiceTest(t)
	defer db.CleanupTestDB(testDB)

	t.Run("rent listing keeps its price", func(t *testing.T) {
		item, err := itemService.CreateItem(user.ID, CreateItemInput{
			CategoryID:  category.ID,
			ItemType:    model.ItemTypeRent,
			Name:        "Kayak",
			Description: "Two-seater",
			Price:       floatPtr(25),
		})
		require.NoError(t, err)
		require.NotNil(t, item.Price)
		assert.Equal(t, 25.0, *item.Price)
		assert.True(t, item.IsActive)
		assert.Equal(t, model.ConditionGood, item.Condition)
	})

	t.Run("rent listing without a price is negotiable", func(t *testing.T) {
		item, err := itemService.CreateItem(user.ID, CreateItemInput{
			CategoryID:  category.ID,
			ItemType:    model.ItemTypeRent,
			Name:        "Tent",
			Description: "Sleeps four",
		})
		require.NoError(t, err)
		assert.Nil(t, item.Price)
	})

	t.Run("swap listing keeps a submitted price", func(t *testing.T) {
		item, err := itemService.CreateItem(user.ID, CreateItemInput{
			CategoryID:  category.ID,
			ItemType:    model.ItemTypeSwap,
			Name:        "Climbing Shoes",
			Description: "Size 42",
			Price:       floatPtr(10),
		})
		require.NoError(t, err)
		require.NotNil(t, item.Price)
		assert.Equal(t, 10.0, *item.Price)
	})

	t.Run("unknown item type", func(t *testing.T) {
		_, err := itemService.CreateItem(user.ID, CreateItemInput{
			CategoryID: category.ID,
			ItemType:   model.ItemType("sell"),
			Name:       "Bike",
		})
		assert.ErrorIs(t, err, ErrInvalidItemType)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := itemService.CreateItem(user.ID, CreateItemInput{
			CategoryID: 9999,
			ItemType:   model.ItemTypeSwap,
			Name:       "Bike",
		})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestItemService_GetItem(t *testing.T) {
	itemService, testDB, user, category := setupItemServiceTest(t)
	defer db.CleanupTestDB(testDB)

	item, err := itemService.CreateItem(user.ID, CreateItemInput{
		CategoryID: category.ID,
		ItemType:   model.ItemTypeDonate,
		Name:       "Ski Poles",
	})
	require.NoError(t, err)

	found, err := itemService.GetItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ski Poles", found.Name)
	assert.Equal(t, user.ID, found.Owner.ID)

	// Deactivated listings disappear from the public view
	inactive := false
	_, err = itemService.UpdateItem(user.ID, item.ID, UpdateItemInput{IsActive: &inactive})
	require.NoError(t, err)

	_, err = itemService.GetItem(item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = itemService.GetItem(9999)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestItemService_UpdateItem(t *testing.T) {
	itemService, testDB, user, category := setupItemServiceTest(t)
	defer db.CleanupTestDB(testDB)

	item, err := itemService.CreateItem(user.ID, CreateItemInput{
		CategoryID: category.ID,
		ItemType:   model.ItemTypeRent,
		Name:       "Surfboard",
		Price:      floatPtr(30),
	})
	require.NoError(t, err)

	t.Run("owner updates fields", func(t *testing.T) {
		name := "Longboard"
		updated, err := itemService.UpdateItem(user.ID, item.ID, UpdateItemInput{
			Name: &name,
		})
		require.NoError(t, err)
		assert.Equal(t, "Longboard", updated.Name)
		// Price untouched
		require.NotNil(t, updated.Price)
		assert.Equal(t, 30.0, *updated.Price)
	})

	t.Run("switching away from rent keeps the price", func(t *testing.T) {
		swap := model.ItemTypeSwap
		updated, err := itemService.UpdateItem(user.ID, item.ID, UpdateItemInput{
			ItemType: &swap,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Price)
		assert.Equal(t, 30.0, *updated.Price)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		stranger := &model.User{
			Email:        "stranger@example.com",
			PasswordHash: "hash",
			Name:         "Stranger",
			Nickname:     "stranger",
			Role:         model.RoleUser,
		}
		testDB.Create(stranger)

		name := "Hijacked"
		_, err := itemService.UpdateItem(stranger.ID, item.ID, UpdateItemInput{Name: &name})
		assert.ErrorIs(t, err, ErrItemAccessDenied)
	})
}

func TestItemService_DeleteItem(t *testing.T) {
	itemService, testDB, user, category := setupItemServiceTest(t)
	defer db.CleanupTestDB(testDB)

	item, err := itemService.CreateItem(user.ID, CreateItemInput{
		CategoryID: category.ID,
		ItemType:   model.ItemTypeDonate,
		Name:       "Old Helmet",
	})
	require.NoError(t, err)

	stranger := &model.User{
		Email:        "stranger@example.com",
		PasswordHash: "hash",
		Name:         "Stranger",
		Nickname:     "stranger",
		Role:         model.RoleUser,
	}
	testDB.Create(stranger)

	err = itemService.DeleteItem(stranger.ID, item.ID)
	assert.ErrorIs(t, err, ErrItemAccessDenied)

	err = itemService.DeleteItem(user.ID, item.ID)
	require.NoError(t, err)

	_, err = itemService.GetItem(item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestItemService_ListItems(t *testing.T) {
	itemService, testDB, user, category := setupItemServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := itemService.CreateItem(user.ID, CreateItemInput{
		CategoryID: category.ID, ItemType: model.ItemTypeSwap, Name: "Snowboard",
	})
	require.NoError(t, err)

	hidden, err := itemService.CreateItem(user.ID, CreateItemInput{
		CategoryID: category.ID, ItemType: model.ItemTypeSwap, Name: "Broken Sled",
	})
	require.NoError(t, err)

	inactive := false
	_, err = itemService.UpdateItem(user.ID, hidden.ID, UpdateItemInput{IsActive: &inactive})
	require.NoError(t, err)

	// Inactive listings never leak into browsing, even if asked for
	items, err := itemService.ListItems(repository.ItemFilter{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Snowboard", items[0].Name)

	// The owner still sees everything on their own shelf
	mine, err := itemService.GetMyItems(user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestItemService_Categories(t *testing.T) {
	itemService, testDB, _, category := setupItemServiceTest(t)
	defer db.CleanupTestDB(testDB)

	categories, err := itemService.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, category.Name, categories[0].Name)

	found, err := itemService.GetCategory(category.ID)
	require.NoError(t, err)
	assert.Equal(t, category.Name, found.Name)

	_, err = itemService.GetCategory(9999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
