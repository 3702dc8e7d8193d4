package main

import (
	"context"

	bookinghandler "styledecor/internal/bookings/handler"
	bookingrepo "styledecor/internal/bookings/repository"
	bookingservice "styledecor/internal/bookings/service"
	bookingvalidator "styledecor/internal/bookings/validator"
	cataloghandler "styledecor/internal/catalog/handler"
	catalogrepo "styledecor/internal/catalog/repository"
	catalogservice "styledecor/internal/catalog/service"
	catalogvalidator "styledecor/internal/catalog/validator"
	decoratorhandler "styledecor/internal/decorators/handler"
	decoratorrepo "styledecor/internal/decorators/repository"
	decoratorservice "styledecor/internal/decorators/service"
	decoratorvalidator "styledecor/internal/decorators/validator"
	paymenthandler "styledecor/internal/payments/handler"
	"styledecor/internal/payments/provider"
	paymentrepo "styledecor/internal/payments/repository"
	paymentservice "styledecor/internal/payments/service"
	paymentvalidator "styledecor/internal/payments/validator"
	userhandler "styledecor/internal/users/handler"
	userrepo "styledecor/internal/users/repository"
	userservice "styledecor/internal/users/service"
	"styledecor/pkg/app"
	"styledecor/pkg/auth"
	"styledecor/pkg/client"
	"styledecor/pkg/config"
	dbmongo "styledecor/pkg/db/mongo"
	"styledecor/pkg/events"
)

const ServiceName = "styledecor"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.ValidateServer(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting StyleDecor service")

	mongoClient := client.NewMongoClient(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	db := mongoClient.Database(cfg.MongoDatabaseName)
	txManager := dbmongo.NewTransactionManager(mongoClient.Client)

	verifier, err := auth.NewFirebaseVerifier(context.Background(), cfg.FirebaseServiceKey)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize identity verifier", "error", err)
	}

	publisher := initPublisher(cfg)

	userRepo := userrepo.NewMongoUserRepository(cfg, db)
	userService := userservice.NewUserService(userRepo, cfg)

	gate := auth.NewGate(verifier, userService, cfg.Log)

	catalogRepo := catalogrepo.NewMongoServiceRepository(cfg, db)
	catalogService := catalogservice.NewCatalogService(catalogRepo, catalogvalidator.NewServiceValidator(cfg.Log), cfg)

	decoratorRepo := decoratorrepo.NewMongoDecoratorRepository(cfg, db)
	decoratorService := decoratorservice.NewDecoratorService(
		decoratorRepo,
		decoratorvalidator.NewDecoratorValidator(cfg.Log),
		publisher,
		cfg,
	)

	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg, db)
	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		decoratorRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		txManager,
		publisher,
		cfg,
	)

	checkoutProvider := provider.NewStripeProvider(cfg.StripeSecretKey, cfg.PublicDomain, cfg.Log)
	paymentRepo := paymentrepo.NewMongoPaymentRepository(cfg, db)
	paymentService := paymentservice.NewPaymentService(
		paymentRepo,
		bookingRepo,
		checkoutProvider,
		paymentvalidator.NewPaymentValidator(cfg.Log),
		txManager,
		publisher,
		cfg,
	)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(mongoClient.Client,
		userhandler.NewUserHandler(userService, gate, cfg.Log),
		cataloghandler.NewCatalogHandler(catalogService, gate, cfg.Log),
		decoratorhandler.NewDecoratorHandler(decoratorService, gate, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, gate, cfg.Log),
		paymenthandler.NewPaymentHandler(paymentService, gate, cfg.Log),
	)
	serverApp.OnShutdown(func() {
		if closer, ok := publisher.(*events.KafkaPublisher); ok {
			if err := closer.Close(); err != nil {
				cfg.Log.Error("Failed to close event publisher", "error", err)
			}
		}
		mongoClient.Disconnect(cfg.ShutdownTimeout)
	})
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, lifecycle events disabled")
		return events.NoopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEventsTopic, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}

	cfg.Log.Info("Kafka event publisher initialized", "topic", cfg.KafkaEventsTopic)
	return publisher
}
