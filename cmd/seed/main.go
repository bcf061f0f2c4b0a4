package main

import (
	"time"

	"github.com/parcelkeep/internal/config"
	"github.com/parcelkeep/internal/constants"
	"github.com/parcelkeep/internal/logger"
	"github.com/parcelkeep/internal/models"
	"github.com/parcelkeep/internal/provider"
	"github.com/parcelkeep/internal/queue"
	"github.com/parcelkeep/internal/service"
)

type demoShipment struct {
	sender        string
	origin        string
	destination   string
	description   string
	weight        float64
	price         float64
	status        string
	sentDaysAgo   int
	recipientSlot int
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Database.Debug); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	empty, err := models.IsEmpty(models.DB)
	if err != nil {
		stdLog.Fatalf("检查数据失败: %v", err)
	}
	if !empty {
		stdLog.Println("数据库已有数据，跳过示例数据写入")
		return
	}

	// 示例数据不经过队列，状态流转直接落库
	queueClient, _ := queue.NewClient(nil)
	container := provider.NewContainerWithDB(cfg, models.DB, queueClient)

	recipients, err := container.RecipientService.AddMany([]service.RecipientInput{
		recipientInput("Jane Doe", "jane.doe@example.com", 1234567890, "123 Test Street, Springfield"),
		recipientInput("Mark Twain", "mark@river.example.com", 5551234567, "42 River Road, Hannibal"),
		recipientInput("Ada Lovelace", "ada@engine.example.com", 4420712345, "12 St James Square, London"),
	})
	if err != nil {
		stdLog.Fatalf("写入收件人失败: %v", err)
	}

	shipments := []demoShipment{
		{sender: "John Smith", origin: "New York", destination: "Springfield", description: "Books", weight: 2.5, price: 50, status: constants.PackageStatusDelivered, sentDaysAgo: 9, recipientSlot: 0},
		{sender: "Acme Corp", origin: "Chicago", destination: "Hannibal", description: "Fishing gear", weight: 7.25, price: 129.99, status: constants.PackageStatusInTransit, sentDaysAgo: 3, recipientSlot: 1},
		{sender: "Charles Babbage", origin: "Cambridge", destination: "London", description: "Punched cards", weight: 0.8, price: 12.4, status: constants.PackageStatusPending, sentDaysAgo: 0, recipientSlot: 2},
		{sender: "Acme Corp", origin: "Chicago", destination: "Springfield", weight: 1.1, price: 18, status: constants.PackageStatusPending, sentDaysAgo: 1, recipientSlot: 0},
	}
	inputs := make([]service.PackageInput, 0, len(shipments))
	now := time.Now()
	for _, item := range shipments {
		recipientID := recipients[item.recipientSlot].ID
		sendDate := now.AddDate(0, 0, -item.sentDaysAgo)
		item := item
		inputs = append(inputs, service.PackageInput{
			Status:        &item.status,
			SendDate:      &sendDate,
			SenderName:    &item.sender,
			RecipientID:   &recipientID,
			Origin:        &item.origin,
			Destination:   &item.destination,
			Description:   &item.description,
			PackageWeight: &item.weight,
			Price:         &item.price,
		})
	}
	packages, err := container.PackageService.AddMany(inputs)
	if err != nil {
		stdLog.Fatalf("写入包裹失败: %v", err)
	}

	logger.Infow("seed_completed", "recipients", len(recipients), "packages", len(packages))
}

func recipientInput(name, email string, contact int64, address string) service.RecipientInput {
	return service.RecipientInput{
		RecipientName:    &name,
		RecipientEmail:   &email,
		RecipientContact: &contact,
		Address:          &address,
	}
}
