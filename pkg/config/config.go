package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Query   QueryConfig   `yaml:"query"`
	Cache   CacheConfig   `yaml:"cache"`
	Planner PlannerConfig `yaml:"planner"`
	Log     LogConfig     `yaml:"log"`
	Web     WebConfig     `yaml:"web"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns the host:port pair net/http expects.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// QueryConfig holds settings for the elevation query collaborator.
type QueryConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	RequestPath string        `yaml:"request_path"`
	Size        int           `yaml:"size"`
	Retries     int           `yaml:"retries"`
	Timeout     Duration      `yaml:"timeout"`
	Backoff     BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds exponential backoff settings for the query client.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// CacheConfig holds settings for the shared elevation-sample cache.
type CacheConfig struct {
	Size      int      `yaml:"size"`
	TTL       Duration `yaml:"ttl"`
	Precision float64  `yaml:"precision"` // degrees; quantizes cache keys
}

// PlannerConfig holds tunables for the incremental planner.
type PlannerConfig struct {
	MaxDistance     Distance `yaml:"max_distance"`      // loaded but not read; the plan handler applies its own fixed 50 km limit
	GridBlockSize   int      `yaml:"grid_block_size"`   // H3 resolution for init2 block hashing
	GridRingRadius  int      `yaml:"grid_ring_radius"`  // init2 expanding-ring search radius
	BoundaryQuerySize int    `yaml:"boundary_query_size"`
}

// WebConfig holds settings surfaced to a front end, if one is attached.
type WebConfig struct {
	TileURL string `yaml:"tile_url"`
}

// LogConfig holds logging settings for the two log streams the service writes.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// LogSettings configures a single log stream.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8025,
		},
		Query: QueryConfig{
			Host:        "127.0.0.1",
			Port:        5555,
			RequestPath: "free/tinder/v3/box2/query",
			Size:        3,
			Retries:     3,
			Timeout:     Duration(5 * time.Second),
			Backoff: BackoffConfig{
				BaseDelay: Duration(200 * time.Millisecond),
				MaxDelay:  Duration(5 * time.Second),
			},
		},
		Cache: CacheConfig{
			Size:      1000,
			TTL:       Duration(300 * time.Second),
			Precision: 0.005,
		},
		Planner: PlannerConfig{
			MaxDistance:       Distance(50000), // 50km
			GridBlockSize:     5,
			GridRingRadius:    3,
			BoundaryQuerySize: 5,
		},
		Log: LogConfig{
			Server:   LogSettings{Path: "logs/server.log", Level: "INFO"},
			Requests: LogSettings{Path: "logs/requests.log", Level: "INFO"},
		},
		Web: WebConfig{
			TileURL: "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it is created with default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		// .env files may carry overrides for the server/query hosts and tile URL without touching the checked-in yaml.
		_ = godotenv.Load(".env.local", ".env")
		applyEnvOverrides(cfg)

		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Path planning service configuration
# ---------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Distance: m (meters), km (kilometers), nm (nautical miles)

`)
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// applyEnvOverrides lets deployment-specific values override the checked-in config
// without requiring a forked yaml file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("QUERY_HOST"); v != "" {
		cfg.Query.Host = v
	}
	if v := os.Getenv("TILE_URL"); v != "" {
		cfg.Web.TileURL = v
	}
}
