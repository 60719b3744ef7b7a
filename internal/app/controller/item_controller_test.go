package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/internal/app/repository"
	"github.com/ikkim/swapdonaterent-backend/internal/app/service"
	"github.com/ikkim/swapdonaterent-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupItemControllerTest(t *testing.T) (*ItemController, *gin.Engine, *gorm.DB, *model.User, *model.Category) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	itemRepo := repository.NewItemRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	itemService := service.NewItemService(itemRepo, categoryRepo)
	ctrl := NewItemController(itemService)

	user := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		Name:         "Owner",
		Nickname:     "owner",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	category := &model.Category{Name: "Books"}
	testDB.Create(category)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return ctrl, router, testDB, user, category
}

func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set("user_id", userID)
}

func TestItemController_CreateItem_Success(t *testing.T) {
	ctrl, router, _, user, category := setupItemControllerTest(t)

	router.POST("/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		ctrl.CreateItem(c)
	})

	reqBody := CreateItemRequest{
		CategoryID:  category.ID,
		ItemType:    "swap",
		Name:        "Paperback novel",
		Description: "Read once",
		Condition:   "like_new",
		Location:    "Brooklyn",
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	item := response["item"].(map[string]interface{})
	assert.Equal(t, "Paperback novel", item["name"])
	assert.Equal(t, "swap", item["item_type"])
	// No price was submitted, so none is stored.
	assert.Nil(t, item["price"])
}

func TestItemController_CreateItem_UnknownType(t *testing.T) {
	ctrl, router, _, user, category := setupItemControllerTest(t)

	router.POST("/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		ctrl.CreateItem(c)
	})

	body := fmt.Sprintf(`{"category_id":%d,"item_type":"sell","name":"Nope"}`, category.ID)
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemController_ListItems_ExcludesInactive(t *testing.T) {
	ctrl, router, testDB, user, category := setupItemControllerTest(t)

	testDB.Create(&model.Item{
		OwnerID: user.ID, CategoryID: category.ID,
		ItemType: model.ItemTypeSwap, Name: "Visible", Description: "d", IsActive: true,
	})
	testDB.Create(&model.Item{
		OwnerID: user.ID, CategoryID: category.ID,
		ItemType: model.ItemTypeSwap, Name: "Hidden", Description: "d", IsActive: false,
	})

	router.GET("/items", ctrl.ListItems)

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(1), response["count"])
	items := response["items"].([]interface{})
	first := items[0].(map[string]interface{})
	assert.Equal(t, "Visible", first["name"])
}

func TestItemController_ListItems_FilterByType(t *testing.T) {
	ctrl, router, testDB, user, category := setupItemControllerTest(t)

	testDB.Create(&model.Item{
		OwnerID: user.ID, CategoryID: category.ID,
		ItemType: model.ItemTypeSwap, Name: "Swap item", Description: "d", IsActive: true,
	})
	price := 12.5
	testDB.Create(&model.Item{
		OwnerID: user.ID, CategoryID: category.ID,
		ItemType: model.ItemTypeRent, Name: "Rent item", Description: "d", Price: &price, IsActive: true,
	})

	router.GET("/items", ctrl.ListItems)

	req := httptest.NewRequest(http.MethodGet, "/items?type=rent", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(1), response["count"])

	// Unknown filter values never fail a browse, they just match nothing.
	req = httptest.NewRequest(http.MethodGet, "/items?type=bogus", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	response = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])

	// Same for a malformed category, which falls back to no filter.
	req = httptest.NewRequest(http.MethodGet, "/items?category=abc", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	response = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["count"])
}

func TestItemController_GetItem_NotFoundWhenInactive(t *testing.T) {
	ctrl, router, testDB, user, category := setupItemControllerTest(t)

	item := &model.Item{
		OwnerID: user.ID, CategoryID: category.ID,
		ItemType: model.ItemTypeDonate, Name: "Gone", Description: "d", IsActive: false,
	}
	testDB.Create(item)

	router.GET("/items/:id", ctrl.GetItem)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/items/%d", item.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemController_UpdateItem_OwnerOnly(t *testing.T) {
	ctrl, router, testDB, user, category := setupItemControllerTest(t)

	stranger := &model.User{
		Email:        "stranger@example.com",
		PasswordHash: "hash",
		Name:         "Stranger",
		Nickname:     "stranger",
		Role:         model.RoleUser,
	}
	testDB.Create(stranger)

	item := &model.Item{
		OwnerID: user.ID, CategoryID: category.ID,
		ItemType: model.ItemTypeSwap, Name: "Mine", Description: "d", IsActive: true,
	}
	testDB.Create(item)

	router.PUT("/items/:id", func(c *gin.Context) {
		setUserIDInContext(c, stranger.ID)
		ctrl.UpdateItem(c)
	})

	body := `{"name":"Hijacked"}`
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/items/%d", item.ID), bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestItemController_GetMyItems_IncludesInactive(t *testing.T) {
	ctrl, router, testDB, user, category := setupItemControllerTest(t)

	testDB.Create(&model.Item{
		OwnerID: user.ID, CategoryID: category.ID,
		ItemType: model.ItemTypeSwap, Name: "Active", Description: "d", IsActive: true,
	})
	testDB.Create(&model.Item{
		OwnerID: user.ID, CategoryID: category.ID,
		ItemType: model.ItemTypeSwap, Name: "Paused", Description: "d", IsActive: false,
	})

	router.GET("/items/mine", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		ctrl.GetMyItems(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/items/mine", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(2), response["count"])
}

func TestItemController_DeleteItem_Success(t *testing.T) {
	ctrl, router, testDB, user, category := setupItemControllerTest(t)

	item := &model.Item{
		OwnerID: user.ID, CategoryID: category.ID,
		ItemType: model.ItemTypeSwap, Name: "Doomed", Description: "d", IsActive: true,
	}
	testDB.Create(item)

	router.DELETE("/items/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		ctrl.DeleteItem(c)
	})

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/items/%d", item.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	testDB.Model(&model.Item{}).Where("id = ?", item.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
