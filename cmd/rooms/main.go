package main

import (
	"context"

	"roombooking/internal/rooms/handler"
	"roombooking/internal/rooms/notifier"
	"roombooking/internal/rooms/repository"
	"roombooking/internal/rooms/service"
	"roombooking/internal/rooms/validator"
	"roombooking/pkg/app"
	"roombooking/pkg/clock"
	"roombooking/pkg/config"
	"roombooking/pkg/kafka"
	kafka_config "roombooking/pkg/kafka/config"
	kafka_middleware "roombooking/pkg/kafka/middleware"
	"roombooking/pkg/model"
)

const ServiceName = "rooms"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Rooms service")

	serverApp := app.NewApplication(cfg)

	roomRepo := initRepository(cfg, serverApp)
	roomNotifier := initNotifier(cfg, serverApp)
	roomService := service.NewRoomService(roomRepo, roomNotifier, clock.System{}, cfg.Log)
	cfg.Log.Info("Room service initialized", "store", cfg.RoomStore, "notifier", cfg.Notifier)

	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		handler.NewRoomHandler(roomService, validator.NewRoomValidator(cfg.Log), cfg.Log),
	)
	serverApp.Run()
}

func initRepository(cfg *config.Config, serverApp *app.Application) repository.RoomRepository {
	if !cfg.UsesMongo() {
		rooms := make([]*model.Room, 0, len(cfg.SeedRoomIDs))
		for _, id := range cfg.SeedRoomIDs {
			rooms = append(rooms, model.NewRoom(id))
		}
		cfg.Log.Info("Using in-memory room store", "rooms", len(rooms))
		return repository.NewMemoryRoomRepository(rooms...)
	}

	cfg.SetMongo()
	serverApp.OnShutdown(func(context.Context) error {
		cfg.GracefulShutdown()
		return nil
	})
	return repository.NewMongoRoomRepository(cfg)
}

func initNotifier(cfg *config.Config, serverApp *app.Application) notifier.Notifier {
	if cfg.Notifier == config.NotifierLog {
		return notifier.NewLogNotifier(cfg.Log)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err.Error())
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BookingEventsTopic, kafkaCfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	metrics := &kafka_middleware.Metrics{}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(metrics.ProducerMiddleware())

	serverApp.OnShutdown(func(context.Context) error {
		cfg.Log.Info("Kafka producer metrics", metrics.Snapshot().LogValues()...)
		return producer.Close()
	})
	return notifier.NewKafkaNotifier(producer, clock.System{}, cfg.Log)
}
