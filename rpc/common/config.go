package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Exit policy
// --------------------------------------------------------------------------

// ExitPolicy decides what the server does when it receives an Exit command.
type ExitPolicy string

const (
	// ExitPolicyShutdown stops accepting connections, drains in-flight commands,
	// closes the log and returns from Serve.
	ExitPolicyShutdown ExitPolicy = "shutdown"
	// ExitPolicyImmediate terminates the process at once without draining.
	ExitPolicyImmediate ExitPolicy = "immediate"
	// ExitPolicyDisabled rejects Exit commands with an error response.
	ExitPolicyDisabled ExitPolicy = "disabled"
)

// ParseExitPolicy parses an exit policy name.
func ParseExitPolicy(s string) (ExitPolicy, error) {
	switch p := ExitPolicy(strings.ToLower(s)); p {
	case ExitPolicyShutdown, ExitPolicyImmediate, ExitPolicyDisabled:
		return p, nil
	default:
		return "", fmt.Errorf("invalid exit policy: %s. must be one of shutdown, immediate, disabled", s)
	}
}

// --------------------------------------------------------------------------
// Transport configuration structs
// --------------------------------------------------------------------------

// SocketConf holds socket options shared by the tcp and unix transports.
type SocketConf struct {
	WriteBufferSize int // socket send buffer in bytes, 0 keeps the OS default
	ReadBufferSize  int // socket receive buffer in bytes, 0 keeps the OS default
}

// TCPConf holds tcp specific socket options.
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int // negative keeps the OS default
}

// ServerTransportConfig configures the server side of a transport.
type ServerTransportConfig struct {
	Endpoint       string
	WorkersPerConn int
	BufferSize     int
	SocketConf
	TCPConf
}

// ClientTransportConfig configures the client side of a transport.
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
	BufferSize             int
	SocketConf
	TCPConf
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters for the rKV server.
type ServerConfig struct {
	Transport ServerTransportConfig

	// Durability log
	AOFPath   string
	AOFSync   bool
	AOFStrict bool

	// Exit handling
	ExitPolicy            ExitPolicy
	ShutdownTimeoutSecond int64

	// per connection read/write timeout
	TimeoutSecond int64

	// Observability
	MetricsEndpoint     string
	StatsIntervalSecond int64

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Workers Per Conn", strconv.Itoa(c.Transport.WorkersPerConn))
	addField("Buffer Size", fmt.Sprintf("%d bytes", c.Transport.BufferSize))

	// Durability log
	addSection("Append Only Log")
	addField("Path", c.AOFPath)
	addField("Fsync", strconv.FormatBool(c.AOFSync))
	addField("Strict", strconv.FormatBool(c.AOFStrict))

	// Exit handling
	addSection("Exit")
	addField("Policy", string(c.ExitPolicy))
	addField("Shutdown Timeout", fmt.Sprintf("%d sec", c.ShutdownTimeoutSecond))

	// Observability
	addSection("Observability")
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	} else {
		addField("Metrics Endpoint", "disabled")
	}
	if c.StatsIntervalSecond > 0 {
		addField("Stats Interval", fmt.Sprintf("%d sec", c.StatsIntervalSecond))
	} else {
		addField("Stats Interval", "disabled")
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)
	addField("Log Format", c.LogFormat)

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.Transport.ConnectionsPerEndpoint)))))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
