package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/evdbrink/freezer-storage-api/internal/config"
	httpAPI "github.com/evdbrink/freezer-storage-api/internal/http"
	"github.com/evdbrink/freezer-storage-api/internal/http/controller"
	"github.com/evdbrink/freezer-storage-api/internal/logger"
	"github.com/evdbrink/freezer-storage-api/internal/metrics"
	"github.com/evdbrink/freezer-storage-api/internal/repository/sql"
	"github.com/evdbrink/freezer-storage-api/internal/service"
	sqspkg "github.com/evdbrink/freezer-storage-api/internal/sqs"
)

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)

	// Create repositories
	storageRepository := sql.NewStorageRepository(db)
	productRepository := sql.NewProductRepository(db)
	freezerRepository := sql.NewFreezerRepository(db)
	drawerRepository := sql.NewDrawerRepository(db)
	eventRepository := sql.NewEventRepository(db)
	transactionalRepository := sql.NewTransactionalRepository(db)

	// Initialize AWS SQS client for publishing storage lifecycle events
	sqsClient, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
	handleErr("initializing SQS client", err)
	sqsPublisher := sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)

	storageService := service.NewStorageService(storageRepository, transactionalRepository)

	// Start outbox worker to publish pending events
	outboxWorker := service.NewOutboxWorker(eventRepository, sqsPublisher, conf.OutboxPollInterval)
	go outboxWorker.Start(ctx)

	// Start HTTP server
	ctr := controller.New()
	storageCtr := controller.NewStorageController(storageService)
	productCtr := controller.NewProductController(productRepository)
	freezerCtr := controller.NewFreezerController(freezerRepository)
	drawerCtr := controller.NewDrawerController(drawerRepository)
	httpServer := gin.Default()
	httpServer = httpAPI.InitRouter(httpServer, ctr, storageCtr, productCtr, freezerCtr, drawerCtr)

	go func() {
		err = httpServer.Run(":" + conf.HTTPServer.Port)
		if err != nil {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metrics.StartMetricsServer(conf)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down gracefully...")
	outboxWorker.Stop()
	// TODO: stop httpServer gracefully
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
