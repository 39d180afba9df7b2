// Package config provides configuration management for the RMI bridge.
//
// This file handles server configuration through environment variables,
// particularly debug mode and connection settings that control behavior
// throughout the application.
package config

import (
	"os"
	"time"
)

// DEBUG_MODE controls debug logging and development features throughout the
// bridge. This variable is set during server initialization based on the
// DEBUG environment variable and should not be modified at runtime.
var DEBUG_MODE = false

// Fixed constants of the coordination kernel. These are treated as
// constants of the design, not configuration surface: the in-flight cap in
// particular is hard-coded to the robot's own motion buffer depth.
const (
	MaxInFlight             = 8
	SenderTickInterval      = 8 * time.Millisecond
	ReaderTickInterval      = 10 * time.Millisecond
	WriteTimeout            = 5 * time.Second
	DialRetries             = 3
	DialBackoff             = 2 * time.Second
	SubmissionQueueCapacity = 1000
	BroadcastCapacity       = 100
	ControlIdleTimeout      = 10 * time.Minute
	ArbiterSweepInterval    = 30 * time.Second
	HubResubscribeInterval  = 500 * time.Millisecond
	TelemetryPollInterval   = 100 * time.Millisecond

	MongodbMinPoolSize = 2
	MongodbMaxPoolSize = 10
)

// Settings holds the environment-derived configuration for one process.
type Settings struct {
	RobotAddr     string
	RobotPort     string
	WebsocketPort string
	ConsolePort   string
	MongoURI      string
	MongoDatabase string
}

// Load reads configuration from the environment, applying defaults where
// the spec names one. Call once during startup, after any .env load.
func Load() Settings {
	DEBUG_MODE = os.Getenv("DEBUG") == "true"

	return Settings{
		RobotAddr:     getenvDefault("ROBOT_ADDR", "127.0.0.1"),
		RobotPort:     getenvDefault("ROBOT_PORT", "16001"),
		WebsocketPort: getenvDefault("WEBSOCKET_PORT", "9000"),
		ConsolePort:   getenvDefault("CONSOLE_PORT", "9001"),
		MongoURI:      getenvDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenvDefault("MONGODB_DATABASE", "rmibridge"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
