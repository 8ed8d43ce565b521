package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/shopzone/shopzone-backend/config"
	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/db"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Imports a product catalog from an XLSX workbook. Expected columns:
// category, name, description, price, stock_quantity, image_url, available.
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

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, categories, err := readCatalogFromXLSX(filePath, db.GetDB())
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Categories resolved: %d\n", len(categories))
	fmt.Printf("Products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := db.GetDB().CreateInBatches(products, 500).Error; err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readCatalogFromXLSX(filePath string, gdb *gorm.DB) ([]model.Product, map[string]uint, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}
	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	categoryIDs := make(map[string]uint)
	var products []model.Product
	skipped := 0

	for i, row := range rows {
		// First row is the header.
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 5 {
			skipped++
			continue
		}

		categoryName := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		description := strings.TrimSpace(row[2])
		priceStr := strings.TrimSpace(row[3])
		stockStr := strings.TrimSpace(row[4])

		var imageURL string
		if len(row) > 5 {
			imageURL = strings.TrimSpace(row[5])
		}
		available := true
		if len(row) > 6 {
			available = strings.EqualFold(strings.TrimSpace(row[6]), "true")
		}

		if name == "" || priceStr == "" {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			skipped++
			continue
		}
		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			stock = 0
		}

		product := model.Product{
			Name:          name,
			Description:   description,
			Price:         price,
			StockQuantity: stock,
			ImageURL:      imageURL,
			IsAvailable:   available,
		}

		if categoryName != "" {
			id, err := resolveCategory(gdb, categoryIDs, categoryName)
			if err != nil {
				return nil, nil, err
			}
			product.CategoryID = &id
		}

		products = append(products, product)
	}

	if skipped > 0 {
		fmt.Printf("Skipped %d malformed rows\n", skipped)
	}
	return products, categoryIDs, nil
}

func resolveCategory(gdb *gorm.DB, cache map[string]uint, name string) (uint, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}

	var category model.Category
	err := gdb.Where("name = ?", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = model.Category{Name: name}
		if err := gdb.Create(&category).Error; err != nil {
			return 0, fmt.Errorf("failed to create category %q: %w", name, err)
		}
	} else if err != nil {
		return 0, fmt.Errorf("failed to look up category %q: %w", name, err)
	}

	cache[name] = category.ID
	return category.ID, nil
}
