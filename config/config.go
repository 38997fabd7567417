package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "MEMORY_BEACON_"

// Config holds all configuration for the application
type Config struct {
	// Game configuration
	Game GameConfig `json:"game" envPrefix:"GAME_"`

	// Save system configuration
	Save SavesConfig `json:"save" envPrefix:"SAVE_"`

	// Storage backend configuration
	Storage StorageConfig `json:"storage" envPrefix:"STORAGE_"`

	// Server configuration
	Server ServerConfig `json:"server" envPrefix:"SERVER_"`
}

// GameConfig holds game specific configuration
type GameConfig struct {
	// Name of the player character
	PlayerName string `json:"player_name" env:"PLAYER_NAME"`

	// Name of the partner the memories belong to
	PartnerName string `json:"partner_name" env:"PARTNER_NAME"`

	// Anchor dates used as clues (month/day)
	MeetingDate  string `json:"meeting_date" env:"MEETING_DATE"`
	TogetherDate string `json:"together_date" env:"TOGETHER_DATE"`

	// Scene loaded on a new game
	StartScene string `json:"start_scene" env:"START_SCENE"`

	// Frame loop rate in ticks per second
	TickRate int `json:"tick_rate" env:"TICK_RATE"`

	// Seed for the disturbance sampler, 0 picks one from the clock
	Seed int64 `json:"seed" env:"SEED"`

	// Directory with definition overrides, empty uses the embedded set
	ContentDir string `json:"content_dir" env:"CONTENT_DIR"`
}

// SavesConfig holds save system configuration
type SavesConfig struct {
	// Key the save file is stored under
	Key string `json:"key" env:"KEY"`

	// Number of save slots
	Slots int `json:"slots" env:"SLOTS"`

	// Autosave interval in seconds, 0 disables autosave
	AutosaveInterval int `json:"autosave_interval" env:"AUTOSAVE_INTERVAL"`
}

// StorageConfig holds persistence backend configuration
type StorageConfig struct {
	// Backend (file, sqlite, memory)
	Driver string `json:"driver" env:"DRIVER"`

	// Directory for the file backend
	Dir string `json:"dir" env:"DIR"`

	// Database connection string for the sqlite backend
	DSN string `json:"dsn" env:"DSN"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port" env:"PORT"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			PlayerName:   "You",
			PartnerName:  "Her",
			MeetingDate:  "4/20",
			TogetherDate: "6/20",
			StartScene:   "scene1",
			TickRate:     60,
		},
		Save: SavesConfig{
			Key:              "loveMysterySaves",
			Slots:            5,
			AutosaveInterval: 300,
		},
		Storage: StorageConfig{
			Driver: "file",
			Dir:    "./data",
			DSN:    "./data/saves.db",
		},
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
		},
	}
}

// LoadConfig loads configuration from a file and applies environment overrides
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config file
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
		return config, ApplyEnv(&config)
	}

	// Read config file
	file, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, ApplyEnv(&config)
}

// ApplyEnv overlays MEMORY_BEACON_* environment variables onto the configuration
func ApplyEnv(config *Config) error {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write config to file
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return err
	}

	return nil
}
