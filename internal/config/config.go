package config

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Remote API the client is a thin shell over.
	APIBaseURL string

	// Localhost control surface.
	ControlAddr string

	// Device-local persisted state.
	StoragePath string
	StorageKey  []byte // 32-byte secretbox key; nil disables sealing

	// Push relay (platform push transport bridge).
	RedisURL string

	// Push provider registration.
	FCMProjectID   string
	FCMClientEmail string
	FCMPrivateKey  string
	DeviceToken    string // provider-assigned token for this installation
	DevicePlatform string // "android" or "ios"
	VirtualDevice  bool   // emulators have no push support
	// Outcome of the OS notification prompt as reported by the host
	// bridge. Defaults to granted.
	NotificationsAllowed bool

	// Delay before the single tap-navigation retry at cold start.
	TapRetryDelay time.Duration
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	apiBaseURL := os.Getenv("API_BASE_URL")
	if apiBaseURL == "" {
		apiBaseURL = "https://api.sandymarket.example.com"
	}

	controlAddr := os.Getenv("CONTROL_ADDR")
	if controlAddr == "" {
		controlAddr = "127.0.0.1:8790"
	}

	storagePath := os.Getenv("STORAGE_PATH")
	if storagePath == "" {
		storagePath = "sandyadmin.db"
	}

	var storageKey []byte
	if raw := os.Getenv("STORAGE_KEY"); raw != "" {
		storageKey, err = hex.DecodeString(raw)
		if err != nil || len(storageKey) != 32 {
			return nil, fmt.Errorf("STORAGE_KEY must be 64 hex characters (32 bytes)")
		}
	} else {
		log.Println("STORAGE_KEY not set, persisted session state will not be sealed at rest")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	devicePlatform := os.Getenv("DEVICE_PLATFORM")
	if devicePlatform == "" {
		devicePlatform = "android"
	}

	virtualDevice, _ := strconv.ParseBool(os.Getenv("DEVICE_VIRTUAL"))

	notificationsAllowed := true
	if raw := os.Getenv("NOTIFICATIONS_ALLOWED"); raw != "" {
		notificationsAllowed, _ = strconv.ParseBool(raw)
	}

	tapRetryMs, err := strconv.Atoi(os.Getenv("TAP_RETRY_DELAY_MS"))
	if err != nil || tapRetryMs <= 0 {
		tapRetryMs = 500
	}

	return &Config{
		APIBaseURL: apiBaseURL,

		ControlAddr: controlAddr,

		StoragePath: storagePath,
		StorageKey:  storageKey,

		RedisURL: redisURL,

		FCMProjectID:         os.Getenv("FCM_PROJECT_ID"),
		FCMClientEmail:       os.Getenv("FCM_CLIENT_EMAIL"),
		FCMPrivateKey:        os.Getenv("FCM_PRIVATE_KEY"),
		DeviceToken:          os.Getenv("DEVICE_PUSH_TOKEN"),
		DevicePlatform:       devicePlatform,
		VirtualDevice:        virtualDevice,
		NotificationsAllowed: notificationsAllowed,

		TapRetryDelay: time.Duration(tapRetryMs) * time.Millisecond,
	}, nil
}
