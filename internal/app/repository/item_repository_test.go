package repository

import (
	"testing"

	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupItemTest(t *testing.T) (*gorm.DB, ItemRepository, *model.User, *model.Category) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewItemRepository(testDB)

	user := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		Name:         "Owner",
		Nickname:     "owner",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	category := &model.Category{Name: "Electronics"}
	testDB.Create(category)

	return testDB, repo, user, category
}

func itemPrice(v float64) *float64 {
	return &v
}

func TestItemRepository_Create(t *testing.T) {
	testDB, repo, user, category := setupItemTest(t)
	defer db.CleanupTestDB(testDB)

	item := &model.Item{
		OwnerID:    user.ID,
		CategoryID: category.ID,
		ItemType:   model.ItemTypeRent,
		Name:       "Mountain Bike",
		Price:      itemPrice(15.0),
		Condition:  model.ConditionGood,
		IsActive:   true,
	}

	err := repo.Create(item)
	assert.NoError(t, err)
	assert.NotZero(t, item.ID)
}

func TestItemRepository_FindByID(t *testing.T) {
	testDB, repo, user, category := setupItemTest(t)
	defer db.CleanupTestDB(testDB)

	item := &model.Item{
		OwnerID:    user.ID,
		CategoryID: category.ID,
		ItemType:   model.ItemTypeSwap,
		Name:       "Record Player",
		IsActive:   true,
	}
	repo.Create(item)

	found, err := repo.FindByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	assert.Equal(t, "Record Player", found.Name)
	assert.Equal(t, user.ID, found.Owner.ID)
	assert.Equal(t, "Electronics", found.Category.Name)
}

func TestItemRepository_FindWithFilter(t *testing.T) {
	testDB, repo, user, category := setupItemTest(t)
	defer db.CleanupTestDB(testDB)

	other := &model.Category{Name: "Books"}
	testDB.Create(other)

	items := []*model.Item{
		{OwnerID: user.ID, CategoryID: category.ID, ItemType: model.ItemTypeSwap, Name: "Vintage Camera", Description: "Works fine", IsActive: true},
		{OwnerID: user.ID, CategoryID: category.ID, ItemType: model.ItemTypeRent, Name: "Projector", Price: itemPrice(20), IsActive: true},
		{OwnerID: user.ID, CategoryID: other.ID, ItemType: model.ItemTypeDonate, Name: "Cookbooks", Description: "Camera-ready recipes", IsActive: true},
		{OwnerID: user.ID, CategoryID: category.ID, ItemType: model.ItemTypeRent, Name: "Drone", Price: itemPrice(50), IsActive: false},
	}
	for _, item := range items {
		require.NoError(t, repo.Create(item))
	}

	t.Run("excludes inactive by default", func(t *testing.T) {
		found, err := repo.FindWithFilter(ItemFilter{})
		require.NoError(t, err)
		assert.Len(t, found, 3)
	})

	t.Run("filters by type", func(t *testing.T) {
		rent := model.ItemTypeRent
		found, err := repo.FindWithFilter(ItemFilter{Type: &rent})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Projector", found[0].Name)
	})

	t.Run("filters by category", func(t *testing.T) {
		found, err := repo.FindWithFilter(ItemFilter{CategoryID: &other.ID})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Cookbooks", found[0].Name)
	})

	t.Run("search matches name or description case-insensitively", func(t *testing.T) {
		found, err := repo.FindWithFilter(ItemFilter{Search: "CAMERA"})
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("sorts by price ascending", func(t *testing.T) {
		rent := model.ItemTypeRent
		found, err := repo.FindWithFilter(ItemFilter{Type: &rent, SortBy: ItemSortPriceLowHigh, IncludeInactive: true})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "Projector", found[0].Name)
		assert.Equal(t, "Drone", found[1].Name)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		found, err := repo.FindWithFilter(ItemFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		found, err = repo.FindWithFilter(ItemFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})
}

func TestItemRepository_FindByOwner(t *testing.T) {
	testDB, repo, user, category := setupItemTest(t)
	defer db.CleanupTestDB(testDB)

	stranger := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other",
		Nickname:     "other",
		Role:         model.RoleUser,
	}
	testDB.Create(stranger)

	repo.Create(&model.Item{OwnerID: user.ID, CategoryID: category.ID, ItemType: model.ItemTypeSwap, Name: "Mine", IsActive: true})
	repo.Create(&model.Item{OwnerID: user.ID, CategoryID: category.ID, ItemType: model.ItemTypeSwap, Name: "Mine Too", IsActive: false})
	repo.Create(&model.Item{OwnerID: stranger.ID, CategoryID: category.ID, ItemType: model.ItemTypeSwap, Name: "Theirs", IsActive: true})

	found, err := repo.FindByOwner(user.ID)
	require.NoError(t, err)
	// Owner sees inactive listings too
	assert.Len(t, found, 2)
}

func TestItemRepository_Update(t *testing.T) {
	testDB, repo, user, category := setupItemTest(t)
	defer db.CleanupTestDB(testDB)

	item := &model.Item{
		OwnerID:    user.ID,
		CategoryID: category.ID,
		ItemType:   model.ItemTypeSwap,
		Name:       "Skis",
		IsActive:   true,
	}
	repo.Create(item)

	item.Name = "Cross-country Skis"
	item.IsActive = false
	err := repo.Update(item)
	assert.NoError(t, err)

	updated, _ := repo.FindByID(item.ID)
	assert.Equal(t, "Cross-country Skis", updated.Name)
	assert.False(t, updated.IsActive)
}

func TestItemRepository_Delete(t *testing.T) {
	testDB, repo, user, category := setupItemTest(t)
	defer db.CleanupTestDB(testDB)

	item := &model.Item{
		OwnerID:    user.ID,
		CategoryID: category.ID,
		ItemType:   model.ItemTypeDonate,
		Name:       "Winter Coats",
		IsActive:   true,
	}
	repo.Create(item)

	err := repo.Delete(item.ID)
	assert.NoError(t, err)

	_, err = repo.FindByID(item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
