package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"luxe/internal/app"
	"luxe/internal/config"
	"luxe/internal/database"
	"luxe/internal/services"
	"luxe/pkg/rabbitmq"
	"luxe/pkg/razorpay"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	server, cleanup, err := newApp(cfg)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	defer cleanup()

	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp opens the database and the broker and builds the HTTP app. The
// returned cleanup releases both.
func newApp(cfg *config.Config) (*fiber.App, func(), error) {
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}

	publisher, closePublisher, err := newPublisher(cfg)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}

	gateway := razorpay.NewClient(razorpay.Config{
		BaseURL:   cfg.RazorpayBaseURL,
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		Timeout:   cfg.GatewayTimeout,
	})
	storage := services.NewLocalFileStorage(cfg.UploadDir, cfg.PublicBaseURL)

	svc := app.NewServices(cfg, db, gateway, publisher, storage)

	cleanup := func() {
		closePublisher()
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
	return app.New(cfg, svc), cleanup, nil
}

// newPublisher returns the RabbitMQ client when enabled, with the mail
// worker consuming the mail queue, and a logging publisher otherwise.
func newPublisher(cfg *config.Config) (services.EventPublisher, func(), error) {
	if !cfg.RabbitMQEnabled {
		log.Println("RabbitMQ disabled, events will be logged")
		return services.LogPublisher{}, func() {}, nil
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{
		URL:    cfg.RabbitMQURL,
		Queues: []string{services.QueuePaymentEvents, services.QueueMail},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
	}

	worker := services.NewMailWorker(services.LogMailSender{})
	if err := client.Consume(services.QueueMail, worker.Handle); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to start mail consumer: %w", err)
	}

	return client, func() {
		if err := client.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
		}
	}, nil
}
