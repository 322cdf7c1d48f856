package config

const (
	// AppName is the name of the application.
	AppName = "wachhund_panel"

	// EnvPanelPort is the environment variable for the HTTP port.
	EnvPanelPort = `PANEL_PORT`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvJwtSecret is the environment variable for the session token
	// signing secret.
	EnvJwtSecret = `JWT_SECRET`

	// EnvDataDir is the environment variable for the data directory shared
	// with the bot.
	EnvDataDir = `DATA_DIR`

	// EnvDocsDir is the environment variable for the document upload
	// directory.
	EnvDocsDir = `DOCS_DIR`

	// EnvTicketBackend is the environment variable selecting where the
	// ticket views read from. It must match the bot's setting.
	EnvTicketBackend = `TICKET_BACKEND`
)

const (
	// TicketBackendFile reads tickets from the JSON files in the data
	// directory. This is the default.
	TicketBackendFile = "file"

	// TicketBackendMongo reads tickets from MongoDB.
	TicketBackendMongo = "mongo"
)

var (
	// PanelPort is the port the panel listens on.
	PanelPort string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	// JwtSecret signs session tokens.
	JwtSecret string

	// DataDir is the directory holding the file backed stores.
	DataDir string

	// DocsDir is the directory uploaded documents are stored in.
	DocsDir string

	// TicketBackend is the selected ticket storage backend.
	TicketBackend string
)
