package config

import "time"

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App      AppConfig      `env-prefix:"APP_"`
	HTTP     HTTPConfig     `env-prefix:"HTTP_"`
	GRPC     GRPCConfig     `env-prefix:"GRPC_"`
	Database DatabaseConfig `env-prefix:"DB_"`
	Notes    NotesConfig    `env-prefix:"NOTES_"`
}

// HTTPConfig is the websocket endpoint listener.
type HTTPConfig struct {
	Addr string `env:"ADDR" env-default:":8081"`
}

type AppConfig struct {
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Pretty   bool   `env:"PRETTY" env-default:"false"`
}

type GRPCConfig struct {
	Addr              string        `env:"ADDR" env-default:":50051"`
	KeepaliveTime     time.Duration `env:"KEEPALIVE_TIME" env-default:"60s"`
	KeepaliveTimeout  time.Duration `env:"KEEPALIVE_TIMEOUT" env-default:"30s"`
	MaxConnectionIdle time.Duration `env:"MAX_CONNECTION_IDLE" env-default:"5m"`
}

type DatabaseConfig struct {
	Driver        string `env:"DRIVER" env-default:"postgres"`
	Port          string `env:"PORT" env-default:"5432"`
	Host          string `env:"HOST" env-default:"localhost"`
	Name          string `env:"NAME" env-default:"postgres"`
	User          string `env:"USER" env-default:"user"`
	Password      string `env:"PASSWORD"`
	MaxConns      int32  `env:"MAX_CONNS" env-default:"5"`
	RetryAttempts uint   `env:"RETRY_ATTEMPTS" env-default:"5"`
}

type NotesConfig struct {
	PageSize   int `env:"PAGE_SIZE" env-default:"5"`
	BcryptCost int `env:"BCRYPT_COST" env-default:"10"`
}

// ClientConfig configures the notesync CLI.
type ClientConfig struct {
	GRPCAddr          string        `env:"NOTESYNC_GRPC_ADDR" env-default:"localhost:50051"`
	RealtimeURL       string        `env:"NOTESYNC_REALTIME_URL" env-default:"ws://localhost:8081/ws"`
	DataDir           string        `env:"NOTESYNC_DATA_DIR"`
	AutosaveWindow    time.Duration `env:"NOTESYNC_AUTOSAVE_WINDOW" env-default:"1s"`
	ReconnectAttempts uint          `env:"NOTESYNC_RECONNECT_ATTEMPTS" env-default:"5"`
	ReconnectDelay    time.Duration `env:"NOTESYNC_RECONNECT_DELAY" env-default:"1s"`
	RequestTimeout    time.Duration `env:"NOTESYNC_REQUEST_TIMEOUT" env-default:"10s"`
	LogLevel          string        `env:"NOTESYNC_LOG_LEVEL" env-default:"warn"`
	Pretty            bool          `env:"NOTESYNC_LOG_PRETTY" env-default:"true"`
}
