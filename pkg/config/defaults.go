package config

import "time"

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	NotifierKafka = "kafka"
	NotifierLog   = "log"
)

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roombooking"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRoomStore   = StoreMongo
	DefaultNotifier    = NotifierKafka
	DefaultSeedRoomIDs = ""

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 64 * 1024

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
