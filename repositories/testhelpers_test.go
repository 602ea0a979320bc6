package repositories

import (
	"AfyaCare/database"
	"AfyaCare/models"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global DB at a fresh in-memory sqlite database.
// Redis stays uninitialized, so locks and caches degrade to no-ops.
func setupTestDB(t *testing.T) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		database.DB = prev
	})
}

func dbFirst(dest interface{}, id uint) error {
	return database.DB.First(dest, "id = ?", id).Error
}

func dbFind(dest interface{}, query string, args ...interface{}) error {
	return database.DB.Where(query, args...).Order("id ASC").Find(dest).Error
}

func dbCount(model interface{}, count *int64, query string, args ...interface{}) error {
	return database.DB.Model(model).Where(query, args...).Count(count).Error
}

func createTestPatient(t *testing.T, firstName, lastName string) *models.Patient {
	t.Helper()
	patient := &models.Patient{
		FirstName: firstName,
		LastName:  lastName,
		Status:    models.PatientStatusSentToBilling,
	}
	patient.Normalize()
	if err := database.DB.Create(patient).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}
	patient.PatientNumber = models.PatientNumberFor(patient.ID)
	if err := database.DB.Model(patient).Update("patient_number", patient.PatientNumber).Error; err != nil {
		t.Fatalf("assign patient number: %v", err)
	}
	return patient
}

func createTestDrug(t *testing.T, name string, quantity int64, price int64) *models.Drug {
	t.Helper()
	drug := &models.Drug{
		Name:      name,
		Quantity:  quantity,
		UnitPrice: decimal.NewFromInt(price),
	}
	drug.EnsureAvailability()
	if err := database.DB.Create(drug).Error; err != nil {
		t.Fatalf("create drug: %v", err)
	}
	return drug
}

// payConsultationBill creates and settles a consultation invoice so the
// patient passes the eligibility check.
func payConsultationBill(t *testing.T, repo *BillingRepository, patientID uint) *models.Billing {
	t.Helper()
	billing := &models.Billing{
		PatientID: &patientID,
		Service:   "consultation",
	}
	ctx := context.Background()
	if err := repo.Create(ctx, billing); err != nil {
		t.Fatalf("create consultation billing: %v", err)
	}
	if _, _, err := repo.RecordPayment(ctx, billing.ID, billing.Amount.String(), models.PaymentMethodCash, "", nil); err != nil {
		t.Fatalf("pay consultation billing: %v", err)
	}
	return billing
}
