package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Inventory InventoryConfig
	Device    DeviceConfig
	Reference ReferenceConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Log       LogConfig
}

// ServerConfig holds local HTTP server related options.
type ServerConfig struct {
	Port string
}

// InventoryConfig contains the endpoint and credential of the remote inventory service.
type InventoryConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// DeviceConfig describes the capture station the agent runs on.
type DeviceConfig struct {
	Platform        models.Platform
	Grants          []models.Capability
	Latitude        *float64
	Longitude       *float64
	LocationTimeout time.Duration
	PhotoInboxDir   string
	PhotoStoreDir   string
}

// ReferenceConfig holds the lookup-list reload schedule. An empty schedule
// disables periodic reloads.
type ReferenceConfig struct {
	ReloadSchedule string
}

// MongoDBConfig holds settings for the submission audit trail. An empty URI
// disables it.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration for the asset register sheet. An empty
// spreadsheet id disables it.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	inventoryTimeout, err := getenvDuration("INVENTORY_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	locationTimeout, err := getenvDuration("LOCATION_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	latitude, err := getenvFloat("STATION_LATITUDE")
	if err != nil {
		return nil, err
	}
	longitude, err := getenvFloat("STATION_LONGITUDE")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Inventory: InventoryConfig{
			BaseURL: os.Getenv("INVENTORY_BASE_URL"),
			Token:   os.Getenv("INVENTORY_TOKEN"),
			Timeout: inventoryTimeout,
		},
		Device: DeviceConfig{
			Platform:        models.Platform(strings.ToLower(getenvWithDefault("DEVICE_PLATFORM", string(models.PlatformAndroid)))),
			Grants:          parseGrants(getenvWithDefault("DEVICE_GRANTS", "camera,location,storage")),
			Latitude:        latitude,
			Longitude:       longitude,
			LocationTimeout: locationTimeout,
			PhotoInboxDir:   getenvWithDefault("PHOTO_INBOX_DIR", "./data/inbox"),
			PhotoStoreDir:   getenvWithDefault("PHOTO_STORE_DIR", "./data/photos"),
		},
		Reference: ReferenceConfig{
			ReloadSchedule: getenvWithDefault("REFERENCE_RELOAD_SCHEDULE", "*/30 * * * *"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "assetcapture"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_REGISTER_ID"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Inventory.BaseURL == "" {
		return errors.New("INVENTORY_BASE_URL must be provided")
	}

	if c.Inventory.Timeout <= 0 {
		return errors.New("INVENTORY_TIMEOUT must be positive")
	}

	switch c.Device.Platform {
	case models.PlatformAndroid, models.PlatformIOS, models.PlatformWeb:
	default:
		return fmt.Errorf("DEVICE_PLATFORM %q is not supported", c.Device.Platform)
	}

	if (c.Device.Latitude == nil) != (c.Device.Longitude == nil) {
		return errors.New("STATION_LATITUDE and STATION_LONGITUDE must be provided together")
	}

	if c.Device.LocationTimeout <= 0 {
		return errors.New("LOCATION_TIMEOUT must be positive")
	}

	if c.Device.PhotoInboxDir == "" || c.Device.PhotoStoreDir == "" {
		return errors.New("PHOTO_INBOX_DIR and PHOTO_STORE_DIR must not be empty")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_REGISTER_ID is set")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string) (*float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return &f, nil
}

// parseGrants maps the short names used in DEVICE_GRANTS onto capabilities.
func parseGrants(raw string) []models.Capability {
	var grants []models.Capability
	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "camera":
			grants = append(grants, models.CapabilityCamera)
		case "location", "fine_location":
			grants = append(grants, models.CapabilityFineLocation)
		case "storage", "storage_read":
			grants = append(grants, models.CapabilityStorageRead)
		}
	}
	return grants
}
