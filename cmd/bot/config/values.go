package config

const (
	// AppName is the name of the application.
	AppName = "wachhund"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvDataDir is the environment variable for the data directory used by
	// the file backed stores.
	EnvDataDir = `DATA_DIR`

	// EnvTicketBackend is the environment variable selecting where tickets,
	// events and the counter live.
	EnvTicketBackend = `TICKET_BACKEND`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`
)

const (
	// TicketBackendFile stores tickets in JSON files under the data
	// directory. This is the default.
	TicketBackendFile = "file"

	// TicketBackendMongo stores tickets in MongoDB.
	TicketBackendMongo = "mongo"
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	// DataDir is the directory holding the file backed stores.
	DataDir string

	// TicketBackend is the selected ticket storage backend.
	TicketBackend string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string
)
