package config

// ServerConfig configures the command bridge listener.
type ServerConfig struct {
	GRPCAddr   string
	HTTPAddr   string // read-only board views; empty disables
	BoardFile  string // optional YAML with BoardConfig
	WatchBoard bool
}

func LoadServerConfig() *ServerConfig {
	return &ServerConfig{
		GRPCAddr:   getEnv("BOARD_GRPC_ADDR", ":50051"),
		HTTPAddr:   getEnv("BOARD_HTTP_ADDR", ":8080"),
		BoardFile:  getEnv("BOARD_CONFIG", "board.yaml"),
		WatchBoard: getEnv("BOARD_CONFIG_WATCH", "true") == "true",
	}
}
