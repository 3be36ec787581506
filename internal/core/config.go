package core

import (
	"time"
)

// Login methods supported by the backend.
const (
	// LoginMethodOAuth performs a blocking OAuth login at startup (or on
	// first session access when lazy connect is enabled).
	LoginMethodOAuth = "oauth"
	// LoginMethodLink defers login behind an out-of-band device-link
	// approval: providers serve placeholder responses until the link is
	// visited. Selecting it always implies lazy connect.
	LoginMethodLink = "link"
)

type Config struct {
	Tidal  TidalConfig
	Server ServerConfig
	Log    LogConfig
}

type TidalConfig struct {
	ClientID      string
	ClientSecret  string
	Quality       string
	LoginMethod   string
	LazyConnect   bool
	DataDir       string
	AuthStorePath string
	// PlaceholderAudioURL is the fixed audio asset served to the host while
	// login is pending.
	PlaceholderAudioURL string
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

func DefaultConfig() *Config {
	return &Config{
		Tidal: TidalConfig{
			Quality:             "LOSSLESS",
			LoginMethod:         LoginMethodOAuth,
			LazyConnect:         false,
			DataDir:             "./tidalbridge_data",
			AuthStorePath:       "./tidalbridge_auth.db",
			PlaceholderAudioURL: "https://upload.wikimedia.org/wikipedia/commons/6/66/Aaron_Dunn_-_Sonata_No_1_-_Movement_2.ogg",
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
