package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/swapdonaterent-backend/internal/app/controller"
	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/internal/app/repository"
	"github.com/ikkim/swapdonaterent-backend/internal/app/service"
	"github.com/ikkim/swapdonaterent-backend/internal/db"
	"github.com/ikkim/swapdonaterent-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestServer struct {
	Router      *gin.Engine
	DB          *gorm.DB
	AuthService service.AuthService
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	resetRepo := repository.NewPasswordResetRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	itemRepo := repository.NewItemRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	convRepo := repository.NewConversationRepository(testDB)

	authService := service.NewAuthService(
		userRepo,
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
	passwordResetService := service.NewPasswordResetService(resetRepo, userRepo)
	itemService := service.NewItemService(itemRepo, categoryRepo)
	cartService := service.NewCartService(cartRepo, itemRepo)
	conversationService := service.NewConversationService(testDB, convRepo, itemRepo)

	authController := controller.NewAuthController(authService, passwordResetService)
	itemController := controller.NewItemController(itemService)
	cartController := controller.NewCartController(cartService)
	conversationController := controller.NewConversationController(conversationService)

	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.GetMe)
	}

	items := router.Group("/api/v1/items")
	{
		items.GET("", itemController.ListItems)
		items.GET("/:id", itemController.GetItem)
		items.POST("", authMiddleware.Authenticate(), itemController.CreateItem)
		items.POST("/:id/conversations", authMiddleware.Authenticate(), conversationController.StartConversation)
	}

	router.GET("/api/v1/cart/count", authMiddleware.OptionalAuthenticate(), cartController.CountItems)

	cart := router.Group("/api/v1/cart")
	cart.Use(authMiddleware.Authenticate())
	{
		cart.GET("", cartController.GetCart)
		cart.POST("", cartController.AddToCart)
		cart.DELETE("/:id", cartController.RemoveFromCart)
	}

	conversations := router.Group("/api/v1/conversations")
	conversations.Use(authMiddleware.Authenticate())
	{
		conversations.GET("", conversationController.ListConversations)
		conversations.GET("/:id", conversationController.GetConversation)
		conversations.GET("/:id/messages", conversationController.GetMessages)
		conversations.POST("/:id/messages", conversationController.SendMessage)
	}

	return &TestServer{
		Router:      router,
		DB:          testDB,
		AuthService: authService,
	}
}

func (ts *TestServer) register(t *testing.T, email, nickname string) string {
	body := fmt.Sprintf(`{"email":%q,"password":"password123","name":"User","nickname":%q}`, email, nickname)
	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	tokens := response["tokens"].(map[string]interface{})
	return tokens["access_token"].(string)
}

func (ts *TestServer) do(t *testing.T, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

// Full marketplace flow: an owner lists an item, a buyer finds it,
// starts a conversation, and the two exchange messages with correct
// read tracking on both sides.
func TestMarketplaceFlow(t *testing.T) {
	ts := setupIntegrationTest(t)

	category := &model.Category{Name: "Furniture"}
	ts.DB.Create(category)

	ownerToken := ts.register(t, "owner@example.com", "owner")
	buyerToken := ts.register(t, "buyer@example.com", "buyer")

	// Owner lists a donation.
	w := ts.do(t, "POST", "/api/v1/items", ownerToken, map[string]interface{}{
		"category_id": category.ID,
		"item_type":   "donate",
		"name":        "Oak bookshelf",
		"description": "Solid, some scratches",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	itemID := uint(created["item"].(map[string]interface{})["id"].(float64))

	// Buyer browses and sees the listing.
	w = ts.do(t, "GET", "/api/v1/items?search=bookshelf", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, float64(1), listing["count"])

	// Buyer starts a conversation and sends three messages.
	w = ts.do(t, "POST", fmt.Sprintf("/api/v1/items/%d/conversations", itemID), buyerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var started map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	convID := uint(started["conversation"].(map[string]interface{})["id"].(float64))

	for _, content := range []string{"Hi, still available?", "I can pick up today", "Around 6pm?"} {
		w = ts.do(t, "POST", fmt.Sprintf("/api/v1/conversations/%d/messages", convID), buyerToken,
			map[string]interface{}{"content": content})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// Owner's inbox shows three unread.
	w = ts.do(t, "GET", "/api/v1/conversations", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var inbox map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inbox))
	entry := inbox["conversations"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(3), entry["unread_count"])

	// Owner opens the conversation, which marks everything read.
	w = ts.do(t, "GET", fmt.Sprintf("/api/v1/conversations/%d", convID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "GET", "/api/v1/conversations", ownerToken, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inbox))
	entry = inbox["conversations"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(0), entry["unread_count"])

	// The buyer's own messages were never unread on the buyer's side.
	w = ts.do(t, "GET", "/api/v1/conversations", buyerToken, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inbox))
	entry = inbox["conversations"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(0), entry["unread_count"])
}

// Cart flow: adding, badge counting, and the guest badge never
// touching storage.
func TestCartFlow(t *testing.T) {
	ts := setupIntegrationTest(t)

	category := &model.Category{Name: "Electronics"}
	ts.DB.Create(category)

	ownerToken := ts.register(t, "owner@example.com", "owner")
	buyerToken := ts.register(t, "buyer@example.com", "buyer")

	w := ts.do(t, "POST", "/api/v1/items", ownerToken, map[string]interface{}{
		"category_id": category.ID,
		"item_type":   "rent",
		"name":        "Projector",
		"description": "1080p",
		"price":       15.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	itemID := uint(created["item"].(map[string]interface{})["id"].(float64))

	// Guest badge is zero and creates nothing.
	w = ts.do(t, "GET", "/api/v1/cart/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var badge map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &badge))
	assert.Equal(t, float64(0), badge["count"])

	var carts int64
	ts.DB.Model(&model.Cart{}).Count(&carts)
	assert.Equal(t, int64(0), carts)

	// Buyer adds the same item twice: one entry, quantity two.
	for i := 0; i < 2; i++ {
		w = ts.do(t, "POST", "/api/v1/cart", buyerToken, map[string]interface{}{"item_id": itemID})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = ts.do(t, "GET", "/api/v1/cart", buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cart map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Equal(t, float64(1), cart["count"])
	entry := cart["cart_items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(2), entry["quantity"])

	// Badge counts distinct entries, not quantities.
	w = ts.do(t, "GET", "/api/v1/cart/count", buyerToken, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &badge))
	assert.Equal(t, float64(1), badge["count"])
}
