package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration
type Config struct {
	Port                int
	WSPort              int    // Port for the WebSocket server (used when ServerType is "both")
	ServerType          string // "http", "websocket", or "both"
	Env                 string // "development" or "production"
	RedisAddr           string
	RedisPassword       string
	GeminiAPIKey        string // optional; empty selects the fallback parser
	OpenWeatherAPIKey   string // optional; empty selects synthetic weather
	AllowedOrigins      []string
	MaxConversations    int
	ConversationTimeout time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	config := &Config{
		Port:                8080,
		WSPort:              8081,
		ServerType:          "http",
		Env:                 "development",
		RedisAddr:           "localhost:6379",
		RedisPassword:       "",
		AllowedOrigins:      []string{"*"},
		MaxConversations:    100,
		ConversationTimeout: 30 * time.Minute,
	}

	// Optional: GEMINI_API_KEY. Without it the engine still works; every
	// turn takes the deterministic fallback path.
	config.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	// Optional: OPENWEATHER_API_KEY. Without it weather is synthetic.
	config.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")

	// Optional: PORT
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		config.Port = p
	}

	// Optional: WS_PORT (used when SERVER_TYPE is "both")
	if wsPort := os.Getenv("WS_PORT"); wsPort != "" {
		p, err := strconv.Atoi(wsPort)
		if err != nil {
			return nil, fmt.Errorf("invalid WS_PORT: %w", err)
		}
		config.WSPort = p
	}

	// Optional: SERVER_TYPE ("http", "websocket", or "both")
	if serverType := os.Getenv("SERVER_TYPE"); serverType != "" {
		switch serverType {
		case "http", "websocket", "both":
			config.ServerType = serverType
		default:
			return nil, fmt.Errorf("invalid SERVER_TYPE: must be 'http', 'websocket', or 'both'")
		}
	}

	// Optional: ENV
	if env := os.Getenv("ENV"); env != "" {
		config.Env = env
	}

	// Optional: REDIS_ADDR
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		config.RedisAddr = redisAddr
	}

	// Optional: REDIS_PASSWORD
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.RedisPassword = redisPassword
	}

	// Optional: ALLOWED_ORIGINS (comma-separated)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	// Optional: MAX_CONVERSATIONS
	if maxConvs := os.Getenv("MAX_CONVERSATIONS"); maxConvs != "" {
		m, err := strconv.Atoi(maxConvs)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_CONVERSATIONS: %w", err)
		}
		config.MaxConversations = m
	}

	// Optional: CONVERSATION_TIMEOUT (in minutes)
	if timeout := os.Getenv("CONVERSATION_TIMEOUT"); timeout != "" {
		t, err := strconv.Atoi(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid CONVERSATION_TIMEOUT: %w", err)
		}
		config.ConversationTimeout = time.Duration(t) * time.Minute
	}

	return config, nil
}
