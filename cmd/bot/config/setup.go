package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/dataaccess/connection"
	"github.com/spieletreff/wachhund/pkg/logging"
)

func Parse(l *slog.Logger) {
	// A .env file is optional; real deployments set the environment
	// directly.
	if err := godotenv.Load(); err == nil {
		l.Debug("Loaded configuration from .env file")
	}

	if envBT := os.Getenv(EnvBotToken); envBT != "" {
		l.Debug("Found bot token in environment", slog.String("key", EnvBotToken))
		BotToken = envBT
	}

	if envAppId := os.Getenv(EnvApplicationId); envAppId != "" {
		l.Debug("Found application ID in environment", slog.String("key", EnvApplicationId))
		ApplicationId = envAppId
	}

	if envMongoUri := os.Getenv(EnvMongoUri); envMongoUri != "" {
		l.Debug("Found MongoDB URI in environment", slog.String("key", EnvMongoUri))
		MongoUri = envMongoUri
	}

	if envDataDir := os.Getenv(EnvDataDir); envDataDir != "" {
		l.Debug("Found data directory in environment", slog.String("key", EnvDataDir))
		DataDir = envDataDir
	} else {
		DataDir = "data"
		l.Info("No data directory provided in environment, defaulting to data", slog.String("key", EnvDataDir))
	}

	switch os.Getenv(EnvTicketBackend) {
	case TicketBackendMongo:
		TicketBackend = TicketBackendMongo
	case TicketBackendFile, "":
		TicketBackend = TicketBackendFile
	default:
		l.Error("Unknown ticket backend", slog.String("key", EnvTicketBackend),
			slog.String("value", os.Getenv(EnvTicketBackend)))
		os.Exit(1)
	}

	if envMonitoringPort := os.Getenv(EnvMonitoringPort); envMonitoringPort != "" {
		l.Debug("Found monitoring port in environment", slog.String("key", EnvMonitoringPort))
		MonitoringPort = envMonitoringPort
	} else {
		MonitoringPort = "8080"
		l.Info("No monitoring port provided in environment, defaulting to 8080", slog.String("key", EnvMonitoringPort))
	}

	if BotToken == "" || ApplicationId == "" {
		l.Error("Not all required environment variables have been provided",
			slog.String(logging.KeyError, "incomplete configuration"))
		os.Exit(1)
	}

	// Panel accounts live in MongoDB regardless of the ticket backend; the
	// bot reads them to grant staff visibility on new ticket channels.
	if MongoUri == "" {
		l.Error("No MongoDB URI provided in environment", slog.String("key", EnvMongoUri))
		os.Exit(1)
	}
	connectMongo(l)
}

func connectMongo(l *slog.Logger) {
	mongoConn := new(connection.MongoDB)
	mongoConn.ConnectionString = MongoUri

	db, err := mongoConn.Connect()
	if err != nil {
		l.Error("Error connecting to mongo", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	} else if db == nil {
		l.Error("MongoDB came back nil", slog.String(logging.KeyError, "MongoDB came back nil"))
		os.Exit(1)
	}

	dataaccess.MongoDB = db

	l.Debug("Connected to MongoDB", slog.String("key", EnvMongoUri))
}
