package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ikkim/swapdonaterent-backend/config"
	"github.com/ikkim/swapdonaterent-backend/internal/app/model"
	"github.com/ikkim/swapdonaterent-backend/internal/app/repository"
	"github.com/ikkim/swapdonaterent-backend/internal/db"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Expected columns, first row is the header:
// owner_email, category, name, description, item_type, condition,
// price, location, contact_info, image_url
const columnCount = 10

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	itemRepo := repository.NewItemRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	items, skipped, err := readItemsFromXLSX(filePath, userRepo, categoryRepo)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total listings to import: %d (skipped: %d)\n", len(items), skipped)
	if len(items) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := itemRepo.BulkCreate(items, batchSize); err != nil {
		log.Fatal("Failed to bulk create listings:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total listings imported: %d\n", len(items))
}

func readItemsFromXLSX(
	filePath string,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
) ([]model.Item, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	// Cache lookups so repeated owners and categories hit the DB once.
	ownerIDs := make(map[string]uint)
	categoryIDs := make(map[string]uint)

	var items []model.Item
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < columnCount {
			skipped++
			continue
		}

		ownerEmail := strings.TrimSpace(row[0])
		categoryName := strings.TrimSpace(row[1])
		name := strings.TrimSpace(row[2])
		description := strings.TrimSpace(row[3])
		itemType := model.ItemType(strings.TrimSpace(row[4]))
		condition := model.ItemCondition(strings.TrimSpace(row[5]))
		priceRaw := strings.TrimSpace(row[6])
		location := strings.TrimSpace(row[7])
		contactInfo := strings.TrimSpace(row[8])
		imageURL := strings.TrimSpace(row[9])

		if ownerEmail == "" || categoryName == "" || name == "" || !itemType.Valid() {
			skipped++
			continue
		}

		ownerID, err := resolveOwner(userRepo, ownerIDs, ownerEmail)
		if err != nil {
			fmt.Printf("Row %d: unknown owner %s, skipping\n", i+1, ownerEmail)
			skipped++
			continue
		}

		categoryID, err := resolveCategory(categoryRepo, categoryIDs, categoryName)
		if err != nil {
			return nil, skipped, fmt.Errorf("failed to resolve category %q: %w", categoryName, err)
		}

		if condition == "" {
			condition = model.ConditionGood
		}

		// Price is optional on any type; a blank rent price stays open.
		var price *float64
		if priceRaw != "" {
			parsed, err := strconv.ParseFloat(priceRaw, 64)
			if err != nil || parsed < 0 {
				fmt.Printf("Row %d: invalid price %q, importing without one\n", i+1, priceRaw)
			} else {
				price = &parsed
			}
		}

		items = append(items, model.Item{
			OwnerID:     ownerID,
			CategoryID:  categoryID,
			ItemType:    itemType,
			Name:        name,
			Description: description,
			Price:       price,
			Condition:   condition,
			Location:    location,
			ContactInfo: contactInfo,
			ImageURL:    imageURL,
			IsActive:    true,
		})
	}

	return items, skipped, nil
}

func resolveOwner(userRepo repository.UserRepository, cache map[string]uint, email string) (uint, error) {
	if id, ok := cache[email]; ok {
		return id, nil
	}

	user, err := userRepo.FindByEmail(email)
	if err != nil {
		return 0, err
	}

	cache[email] = user.ID
	return user.ID, nil
}

// resolveCategory finds the category by name, creating it on first sight.
func resolveCategory(categoryRepo repository.CategoryRepository, cache map[string]uint, name string) (uint, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}

	category, err := categoryRepo.FindByName(name)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		category = &model.Category{Name: name}
		if err := categoryRepo.Create(category); err != nil {
			return 0, err
		}
	}

	cache[name] = category.ID
	return category.ID, nil
}
