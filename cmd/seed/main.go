package main

import (
	"time"

	"github.com/sabzihub/backend/internal/config"
	"github.com/sabzihub/backend/internal/constants"
	"github.com/sabzihub/backend/internal/logger"
	"github.com/sabzihub/backend/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	categories := []models.Category{
		{Slug: "vegetables", Name: "Vegetables", SortOrder: 1, IsActive: true},
		{Slug: "fruits", Name: "Fruits", SortOrder: 2, IsActive: true},
		{Slug: "leafy-greens", Name: "Leafy Greens", SortOrder: 3, IsActive: true},
		{Slug: "dairy", Name: "Dairy & Eggs", SortOrder: 4, IsActive: true},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	for _, slug := range []string{"vegetables", "fruits", "leafy-greens", "dairy"} {
		var cat models.Category
		if err := models.DB.Where("slug = ?", slug).First(&cat).Error; err != nil {
			stdLog.Fatalf("Failed to load category %s: %v", slug, err)
		}
		categoryIDs[slug] = cat.ID
	}

	price := func(s string) models.Money {
		return models.NewMoneyFromDecimal(decimal.RequireFromString(s))
	}

	type seedProduct struct {
		product models.Product
		tiers   []models.PriceTier
	}

	products := []seedProduct{
		{
			product: models.Product{
				CategoryID:  categoryIDs["vegetables"],
				Slug:        "organic-tomato",
				Name:        "Organic Tomato",
				Description: "Vine-ripened desi tomatoes, pesticide free.",
				Tags:        models.StringArray{"organic", "fresh"},
				IsActive:    true,
				SortOrder:   1,
			},
			tiers: []models.PriceTier{
				{Label: "500 g", UnitPrice: price("32.00"), MRP: price("40.00"), Stock: 120, IsActive: true, SortOrder: 1},
				{Label: "1 kg", UnitPrice: price("60.00"), MRP: price("78.00"), Stock: 80, IsActive: true, SortOrder: 2},
			},
		},
		{
			product: models.Product{
				CategoryID:  categoryIDs["vegetables"],
				Slug:        "organic-potato",
				Name:        "Organic Potato",
				Description: "Farm fresh potatoes grown without chemical fertilizer.",
				Tags:        models.StringArray{"organic", "staple"},
				IsActive:    true,
				SortOrder:   2,
			},
			tiers: []models.PriceTier{
				{Label: "1 kg", UnitPrice: price("38.00"), MRP: price("45.00"), Stock: 200, IsActive: true, SortOrder: 1},
				{Label: "2 kg", UnitPrice: price("72.00"), MRP: price("90.00"), Stock: 100, IsActive: true, SortOrder: 2},
			},
		},
		{
			product: models.Product{
				CategoryID:  categoryIDs["fruits"],
				Slug:        "alphonso-mango",
				Name:        "Alphonso Mango",
				Description: "Ratnagiri alphonso, naturally ripened.",
				Tags:        models.StringArray{"seasonal", "premium"},
				IsActive:    true,
				SortOrder:   1,
			},
			tiers: []models.PriceTier{
				{Label: "Box of 6", UnitPrice: price("450.00"), MRP: price("550.00"), Stock: 40, IsActive: true, SortOrder: 1},
				{Label: "Box of 12", UnitPrice: price("850.00"), MRP: price("1100.00"), Stock: 20, IsActive: true, SortOrder: 2},
			},
		},
		{
			product: models.Product{
				CategoryID:  categoryIDs["leafy-greens"],
				Slug:        "organic-spinach",
				Name:        "Organic Spinach",
				Description: "Tender palak bunches, harvested every morning.",
				Tags:        models.StringArray{"organic", "fresh"},
				IsActive:    true,
				SortOrder:   1,
			},
			tiers: []models.PriceTier{
				{Label: "250 g bunch", UnitPrice: price("25.00"), MRP: price("30.00"), Stock: 150, IsActive: true, SortOrder: 1},
			},
		},
		{
			product: models.Product{
				CategoryID:  categoryIDs["dairy"],
				Slug:        "farm-eggs",
				Name:        "Free Range Eggs",
				Description: "Brown eggs from pasture-raised hens.",
				Tags:        models.StringArray{"protein"},
				IsActive:    true,
				SortOrder:   1,
			},
			tiers: []models.PriceTier{
				{Label: "6 pack", UnitPrice: price("72.00"), MRP: price("84.00"), Stock: 90, IsActive: true, SortOrder: 1},
				{Label: "12 pack", UnitPrice: price("138.00"), MRP: price("160.00"), Stock: 60, IsActive: true, SortOrder: 2},
			},
		},
	}

	for _, sp := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", sp.product.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", sp.product.Slug)
			continue
		}
		if err := models.DB.Create(&sp.product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", sp.product.Slug, err)
			continue
		}
		for i := range sp.tiers {
			sp.tiers[i].ProductID = sp.product.ID
			if err := models.DB.Create(&sp.tiers[i]).Error; err != nil {
				stdLog.Printf("Failed to create tier %s/%s: %v", sp.product.Slug, sp.tiers[i].Label, err)
			}
		}
		stdLog.Printf("Created product: %s (%d tiers)", sp.product.Slug, len(sp.tiers))
	}

	endsAt := time.Now().AddDate(0, 1, 0)
	coupon := models.Coupon{
		Code:        "WELCOME50",
		Type:        constants.CouponTypeFlat,
		Value:       price("50.00"),
		MinAmount:   price("299.00"),
		MaxDiscount: price("50.00"),
		UsageLimit:  1000,
		EndsAt:      &endsAt,
		IsActive:    true,
	}
	var existingCoupon models.Coupon
	if err := models.DB.Where("code = ?", coupon.Code).First(&existingCoupon).Error; err != nil {
		if err := models.DB.Create(&coupon).Error; err != nil {
			stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
		} else {
			stdLog.Printf("Created coupon: %s", coupon.Code)
		}
	} else {
		stdLog.Printf("Coupon already exists: %s", coupon.Code)
	}

	stdLog.Printf("Seed finished")
}
