package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"noteboard/vectormath"
)

type Config struct {
	AppPort int

	OpenAIAPIKey        string
	EmbeddingModel      string
	EmbeddingDimensions int
	ChatModel           string
	KeywordModel        string

	QdrantHost string
	QdrantPort int

	NoteStorePath string
	PromptsPath   string

	// AggregationPolicy selects how note embeddings combine into a profile
	// vector: "mean" (default) or "similarity_weighted".
	AggregationPolicy string

	CatalogBaseURL string
	CatalogAPIKey  string

	// AuthTokens maps bearer tokens to user IDs. The identity provider
	// proper lives outside this service.
	AuthTokens map[string]string

	ChatStreamDeadline time.Duration
}

func Load() (*Config, error) {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	qdrantPort, err := getEnvInt("QDRANT_PORT", 6334)
	if err != nil {
		return nil, err
	}
	dims, err := getEnvInt("EMBEDDING_DIMENSIONS", 1536)
	if err != nil {
		return nil, err
	}

	apiKey, err := getEnv("OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	tokens, err := parseAuthTokens(os.Getenv("AUTH_TOKENS"))
	if err != nil {
		return nil, err
	}

	policy := getEnvDefault("AGGREGATION_POLICY", "mean")
	switch vectormath.Policy(policy) {
	case vectormath.PolicyMean, vectormath.PolicySimilarityWeighted:
	default:
		return nil, fmt.Errorf("unknown AGGREGATION_POLICY %q", policy)
	}

	return &Config{
		AppPort:             appPort,
		OpenAIAPIKey:        apiKey,
		EmbeddingModel:      getEnvDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimensions: dims,
		ChatModel:           getEnvDefault("CHAT_MODEL", "gpt-4"),
		KeywordModel:        getEnvDefault("KEYWORD_MODEL", "gpt-3.5-turbo"),
		QdrantHost:          getEnvDefault("QDRANT_HOST", "localhost"),
		QdrantPort:          qdrantPort,
		NoteStorePath:       getEnvDefault("NOTE_STORE_PATH", "data/notes.db"),
		PromptsPath:         getEnvDefault("PROMPTS_PATH", "config/prompts.yaml"),
		AggregationPolicy:   policy,
		CatalogBaseURL:      getEnvDefault("CATALOG_BASE_URL", "https://www.udemy.com/api-2.0"),
		CatalogAPIKey:       os.Getenv("CATALOG_API_KEY"),
		AuthTokens:          tokens,
		ChatStreamDeadline:  2 * time.Minute,
	}, nil
}

func getEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("environment variable %s is required but not set", key)
	}
	return value, nil
}

func getEnvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return n, nil
}

// parseAuthTokens parses "token:userID,token:userID" pairs.
func parseAuthTokens(raw string) (map[string]string, error) {
	tokens := make(map[string]string)
	if raw == "" {
		return tokens, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, userID, ok := strings.Cut(pair, ":")
		if !ok || token == "" || userID == "" {
			return nil, fmt.Errorf("malformed AUTH_TOKENS entry %q", pair)
		}
		// User IDs key the per-user note index, where "/" separates the
		// user ID from the note ID.
		if strings.Contains(userID, "/") {
			return nil, fmt.Errorf("AUTH_TOKENS user ID %q must not contain \"/\"", userID)
		}
		tokens[token] = userID
	}
	return tokens, nil
}
