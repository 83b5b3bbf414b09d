package db

import (
	"github.com/diewo77/go-profiles/internal/models"
	"gorm.io/gorm"
)

// DefaultResources is the back office resource catalog.
var DefaultResources = []struct {
	Code  string
	Title string
}{
	{"admin.address", "Addresses"},
	{"admin.administrator", "Administrators"},
	{"admin.attribute", "Attributes"},
	{"admin.brand", "Brands"},
	{"admin.category", "Categories"},
	{"admin.configuration", "Configuration"},
	{"admin.configuration.currency", "Currencies"},
	{"admin.configuration.country", "Countries"},
	{"admin.configuration.tax", "Taxes"},
	{"admin.content", "Contents"},
	{"admin.coupon", "Coupons"},
	{"admin.customer", "Customers"},
	{"admin.feature", "Features"},
	{"admin.folder", "Folders"},
	{"admin.module", "Modules"},
	{"admin.order", "Orders"},
	{"admin.product", "Products"},
	{"admin.profile", "Profiles"},
}

// DefaultModules is the module catalog known at install time.
var DefaultModules = []struct {
	Code  string
	Title string
}{
	{"Carousel", "Carousel"},
	{"Cheque", "Cheque payment"},
	{"Colissimo", "Colissimo delivery"},
	{"HookAdminHome", "Back office home"},
}

// SeedResources creates the resource catalog.
func SeedResources(db *gorm.DB) error {
	for _, r := range DefaultResources {
		res := models.Resource{Code: r.Code, Title: r.Title}
		// Use FirstOrCreate to avoid duplicates
		if err := db.Where("code = ?", r.Code).FirstOrCreate(&res).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedModules creates the module catalog.
func SeedModules(db *gorm.DB) error {
	for _, m := range DefaultModules {
		mod := models.Module{Code: m.Code, Title: m.Title}
		if err := db.Where("code = ?", m.Code).FirstOrCreate(&mod).Error; err != nil {
			return err
		}
	}
	return nil
}
