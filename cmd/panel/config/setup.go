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
	if err := godotenv.Load(); err == nil {
		l.Debug("Loaded configuration from .env file")
	}

	if envPort := os.Getenv(EnvPanelPort); envPort != "" {
		l.Debug("Found panel port in environment", slog.String("key", EnvPanelPort))
		PanelPort = envPort
	} else {
		PanelPort = "8090"
		l.Info("No panel port provided in environment, defaulting to 8090", slog.String("key", EnvPanelPort))
	}

	if envMongoUri := os.Getenv(EnvMongoUri); envMongoUri != "" {
		l.Debug("Found MongoDB URI in environment", slog.String("key", EnvMongoUri))
		MongoUri = envMongoUri
	}

	if envSecret := os.Getenv(EnvJwtSecret); envSecret != "" {
		JwtSecret = envSecret
	}

	if envDataDir := os.Getenv(EnvDataDir); envDataDir != "" {
		l.Debug("Found data directory in environment", slog.String("key", EnvDataDir))
		DataDir = envDataDir
	} else {
		DataDir = "data"
		l.Info("No data directory provided in environment, defaulting to data", slog.String("key", EnvDataDir))
	}

	if envDocsDir := os.Getenv(EnvDocsDir); envDocsDir != "" {
		l.Debug("Found documents directory in environment", slog.String("key", EnvDocsDir))
		DocsDir = envDocsDir
	} else {
		DocsDir = "uploads"
		l.Info("No documents directory provided in environment, defaulting to uploads", slog.String("key", EnvDocsDir))
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

	if MongoUri == "" || JwtSecret == "" {
		l.Error("Not all required environment variables have been provided",
			slog.String(logging.KeyError, "incomplete configuration"))
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
