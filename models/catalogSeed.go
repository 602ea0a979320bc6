package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedInvestigations inserts a starter investigation catalog.
func SeedInvestigations(db *gorm.DB) error {
	initial := []Investigation{
		{Name: "Full Blood Count", Price: decimal.NewFromInt(800), AvailabilityStatus: AvailabilityAvailable},
		{Name: "Malaria Smear", Price: decimal.NewFromInt(400), AvailabilityStatus: AvailabilityAvailable},
		{Name: "Urinalysis", Price: decimal.NewFromInt(350), AvailabilityStatus: AvailabilityAvailable},
		{Name: "Random Blood Sugar", Price: decimal.NewFromInt(300), AvailabilityStatus: AvailabilityAvailable},
		{Name: "Chest X-Ray", Price: decimal.NewFromInt(2500), AvailabilityStatus: AvailabilityAvailable},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, inv := range initial {
			if err := tx.FirstOrCreate(&inv, Investigation{Name: inv.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SeedDrugs inserts a starter pharmacy formulary.
func SeedDrugs(db *gorm.DB) error {
	initial := []Drug{
		{Name: "Paracetamol", StrengthOrPack: "500mg tabs x100", Quantity: 500, UnitPrice: decimal.NewFromInt(10)},
		{Name: "Amoxicillin", StrengthOrPack: "500mg caps x30", Quantity: 200, UnitPrice: decimal.NewFromInt(50)},
		{Name: "Artemether-Lumefantrine", StrengthOrPack: "20/120mg tabs x24", Quantity: 150, UnitPrice: decimal.NewFromInt(120)},
		{Name: "Omeprazole", StrengthOrPack: "20mg caps x30", Quantity: 100, UnitPrice: decimal.NewFromInt(35)},
		{Name: "Amlodipine", StrengthOrPack: "5mg tabs x28", Quantity: 80, UnitPrice: decimal.NewFromInt(45)},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, drug := range initial {
			drug.EnsureAvailability()
			if err := tx.FirstOrCreate(&drug, Drug{Name: drug.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SeedDiagnoses inserts common diagnoses.
func SeedDiagnoses(db *gorm.DB) error {
	initial := []Diagnosis{
		{Name: "Malaria"},
		{Name: "Typhoid"},
		{Name: "Hypertension"},
		{Name: "Diabetes Mellitus"},
		{Name: "Upper Respiratory Tract Infection"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, d := range initial {
			if err := tx.FirstOrCreate(&d, Diagnosis{Name: d.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
