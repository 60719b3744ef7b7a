package db

import (
	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.PasswordReset{},
		&model.Category{},
		&model.Item{},
		&model.Cart{},
		&model.CartItem{},
		&model.Conversation{},
		&model.Message{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedCategories(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedCategories()
}

// seedCategories creates the default category taxonomy used for browsing
func seedCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding category data...")

	categories := []model.Category{
		{Name: "Electronics", Description: "Phones, laptops, cameras and gadgets"},
		{Name: "Furniture", Description: "Chairs, tables, shelves and home furniture"},
		{Name: "Books", Description: "Books, textbooks, comics and magazines"},
		{Name: "Clothing", Description: "Clothes, shoes and accessories"},
		{Name: "Sports & Outdoors", Description: "Sports gear, bikes and camping equipment"},
		{Name: "Toys & Games", Description: "Toys, board games and video games"},
		{Name: "Home & Garden", Description: "Kitchenware, tools and garden supplies"},
		{Name: "Other", Description: "Everything that fits nowhere else"},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			logger.Error("Failed to create category", err, map[string]interface{}{
				"category": category.Name,
			})
			return err
		}
	}

	logger.Info("Categories seeded successfully", map[string]interface{}{
		"total_categories": len(categories),
	})
	return nil
}
