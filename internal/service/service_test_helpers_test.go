package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/parcelkeep/internal/config"
	"github.com/parcelkeep/internal/models"
	"github.com/parcelkeep/internal/queue"
	"github.com/parcelkeep/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type testServices struct {
	db         *gorm.DB
	packages   *PackageService
	recipients *RecipientService
	events     *PackageEventService
	imports    *ImportService
}

func setupServiceTest(t *testing.T) *testServices {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), models.NewGormConfig(false))
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}

	packageRepo := repository.NewPackageRepository(db)
	recipientRepo := repository.NewRecipientRepository(db)
	eventRepo := repository.NewPackageEventRepository(db)

	events := NewPackageEventService(eventRepo, packageRepo, queueClient)
	packages := NewPackageService(packageRepo, recipientRepo, eventRepo, NewTrackingAllocator(packageRepo, 3), events)
	recipients := NewRecipientService(recipientRepo)
	cfg := &config.Config{Import: config.ImportConfig{MaxSize: 10 * 1024 * 1024}}

	return &testServices{
		db:         db,
		packages:   packages,
		recipients: recipients,
		events:     events,
		imports:    NewImportService(cfg, packages, recipients),
	}
}

func strPtr(v string) *string       { return &v }
func int64Ptr(v int64) *int64       { return &v }
func uintPtr(v uint) *uint          { return &v }
func float64Ptr(v float64) *float64 { return &v }

func janeInput(contact int64) RecipientInput {
	return RecipientInput{
		RecipientName:    strPtr("Jane Doe"),
		RecipientEmail:   strPtr("jane@x.com"),
		RecipientContact: int64Ptr(contact),
		Address:          strPtr("123 Test Street"),
	}
}

func createJane(t *testing.T, s *testServices, contact int64) *models.Recipient {
	t.Helper()
	recipient, err := s.recipients.Create(janeInput(contact))
	if err != nil {
		t.Fatalf("create recipient failed: %v", err)
	}
	return recipient
}

func packageInput(recipientID uint) PackageInput {
	return PackageInput{
		Status:        strPtr("pending"),
		SenderName:    strPtr("John Smith"),
		RecipientID:   uintPtr(recipientID),
		Origin:        strPtr("New York"),
		Destination:   strPtr("Los Angeles"),
		PackageWeight: float64Ptr(2.5),
		Price:         float64Ptr(50),
	}
}
