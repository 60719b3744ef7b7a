package repository

import (
	"testing"
	"time"

	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupConversationTest(t *testing.T) (*gorm.DB, ConversationRepository, *model.User, *model.User, *model.Item) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewConversationRepository(testDB)

	owner := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		Name:         "Owner",
		Nickname:     "owner",
		Role:         model.RoleUser,
	}
	testDB.Create(owner)

	buyer := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Buyer",
		Nickname:     "buyer",
		Role:         model.RoleUser,
	}
	testDB.Create(buyer)

	category := &model.Category{Name: "Furniture"}
	testDB.Create(category)

	item := &model.Item{
		OwnerID:    owner.ID,
		CategoryID: category.ID,
		ItemType:   model.ItemTypeSwap,
		Name:       "Oak Desk",
		IsActive:   true,
	}
	testDB.Create(item)

	return testDB, repo, owner, buyer, item
}

func TestConversationRepository_CreateAndFind(t *testing.T) {
	testDB, repo, owner, buyer, item := setupConversationTest(t)
	defer db.CleanupTestDB(testDB)

	conv := &model.Conversation{
		ItemID:  item.ID,
		User1ID: owner.ID,
		User2ID: buyer.ID,
	}

	err := repo.CreateConversation(conv)
	require.NoError(t, err)
	assert.NotZero(t, conv.ID)

	found, err := repo.FindByIDWithDetails(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, found.User1.ID)
	assert.Equal(t, buyer.ID, found.User2.ID)
	assert.Equal(t, "Oak Desk", found.Item.Name)
}

func TestConversationRepository_FindByItemAndParticipant(t *testing.T) {
	testDB, repo, owner, buyer, item := setupConversationTest(t)
	defer db.CleanupTestDB(testDB)

	conv := &model.Conversation{ItemID: item.ID, User1ID: owner.ID, User2ID: buyer.ID}
	require.NoError(t, repo.CreateConversation(conv))

	// Either participant finds the same conversation
	found, err := repo.FindByItemAndParticipant(item.ID, buyer.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, conv.ID, found.ID)

	found, err = repo.FindByItemAndParticipant(item.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, conv.ID, found.ID)

	// A third user has no conversation for this item
	found, err = repo.FindByItemAndParticipant(item.ID, 9999)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestConversationRepository_FindByParticipant(t *testing.T) {
	testDB, repo, owner, buyer, item := setupConversationTest(t)
	defer db.CleanupTestDB(testDB)

	category := &model.Category{Name: "Books"}
	testDB.Create(category)

	second := &model.Item{
		OwnerID:    buyer.ID,
		CategoryID: category.ID,
		ItemType:   model.ItemTypeDonate,
		Name:       "Textbooks",
		IsActive:   true,
	}
	testDB.Create(second)

	older := &model.Conversation{ItemID: item.ID, User1ID: owner.ID, User2ID: buyer.ID}
	require.NoError(t, repo.CreateConversation(older))

	newer := &model.Conversation{ItemID: second.ID, User1ID: buyer.ID, User2ID: owner.ID}
	require.NoError(t, repo.CreateConversation(newer))

	// Bump the first conversation so it sorts to the top
	require.NoError(t, repo.TouchUpdatedAt(older.ID, time.Now().Add(time.Hour)))

	convs, err := repo.FindByParticipant(buyer.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, older.ID, convs[0].ID)
	assert.Equal(t, newer.ID, convs[1].ID)
}

func TestConversationRepository_Messages(t *testing.T) {
	testDB, repo, owner, buyer, item := setupConversationTest(t)
	defer db.CleanupTestDB(testDB)

	conv := &model.Conversation{ItemID: item.ID, User1ID: owner.ID, User2ID: buyer.ID}
	require.NoError(t, repo.CreateConversation(conv))

	first := &model.Message{ConversationID: conv.ID, SenderID: buyer.ID, Content: "Is this still available?"}
	require.NoError(t, repo.CreateMessage(first))

	second := &model.Message{ConversationID: conv.ID, SenderID: owner.ID, Content: "It is."}
	require.NoError(t, repo.CreateMessage(second))

	messages, err := repo.FindMessages(conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Is this still available?", messages[0].Content)
	assert.Equal(t, buyer.ID, messages[0].Sender.ID)
	assert.Equal(t, "It is.", messages[1].Content)
}

func TestConversationRepository_MarkConversationRead(t *testing.T) {
	testDB, repo, owner, buyer, item := setupConversationTest(t)
	defer db.CleanupTestDB(testDB)

	conv := &model.Conversation{ItemID: item.ID, User1ID: owner.ID, User2ID: buyer.ID}
	require.NoError(t, repo.CreateConversation(conv))

	repo.CreateMessage(&model.Message{ConversationID: conv.ID, SenderID: buyer.ID, Content: "Hello"})
	repo.CreateMessage(&model.Message{ConversationID: conv.ID, SenderID: buyer.ID, Content: "Anyone there?"})
	repo.CreateMessage(&model.Message{ConversationID: conv.ID, SenderID: owner.ID, Content: "Here now"})

	// Owner has two unread, buyer one
	count, err := repo.CountUnread(conv.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountUnread(conv.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Owner opens the conversation: only the buyer's messages flip
	updated, err := repo.MarkConversationRead(conv.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	count, _ = repo.CountUnread(conv.ID, owner.ID)
	assert.Equal(t, int64(0), count)

	// Buyer's unread count is untouched
	count, _ = repo.CountUnread(conv.ID, buyer.ID)
	assert.Equal(t, int64(1), count)

	// Read timestamps were set
	messages, _ := repo.FindMessages(conv.ID)
	assert.True(t, messages[0].IsRead)
	assert.NotNil(t, messages[0].ReadAt)
}

func TestConversationRepository_MarkMessageRead(t *testing.T) {
	testDB, repo, owner, buyer, item := setupConversationTest(t)
	defer db.CleanupTestDB(testDB)

	conv := &model.Conversation{ItemID: item.ID, User1ID: owner.ID, User2ID: buyer.ID}
	require.NoError(t, repo.CreateConversation(conv))

	message := &model.Message{ConversationID: conv.ID, SenderID: buyer.ID, Content: "Ping"}
	require.NoError(t, repo.CreateMessage(message))

	err := repo.MarkMessageRead(message.ID)
	assert.NoError(t, err)

	found, _ := repo.FindMessageByID(message.ID)
	assert.True(t, found.IsRead)
	assert.NotNil(t, found.ReadAt)
}

func TestConversationRepository_DeleteConversation(t *testing.T) {
	testDB, repo, owner, buyer, item := setupConversationTest(t)
	defer db.CleanupTestDB(testDB)

	conv := &model.Conversation{ItemID: item.ID, User1ID: owner.ID, User2ID: buyer.ID}
	require.NoError(t, repo.CreateConversation(conv))

	repo.CreateMessage(&model.Message{ConversationID: conv.ID, SenderID: buyer.ID, Content: "Hello"})

	err := repo.DeleteConversation(conv.ID)
	assert.NoError(t, err)

	_, err = repo.FindByID(conv.ID)
	assert.Error(t, err)

	messages, err := repo.FindMessages(conv.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 0)
}
