package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Content ContentConfig
	Redis   RedisConfig
	Discord DiscordConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	llm, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}

	content, err := loadContentConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		LLM:     llm,
		Content: content,
		Redis:   loadRedisConfig(),
		Discord: loadDiscordConfig(),
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr      string
	APIPrefix string
}

// loadServerConfig 解析服务器监听地址与路由前缀。
func loadServerConfig() (ServerConfig, error) {
	prefix := getEnvOrDefault("API_PREFIX", "/api")
	if prefix == "/" {
		prefix = ""
	}
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	prefix = strings.TrimRight(prefix, "/")

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, APIPrefix: prefix}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, APIPrefix: prefix}, nil
}

// LLMConfig 描述文本补全服务相关配置。
type LLMConfig struct {
	APIKey       string
	Model        string
	BaseURL      string
	Region       string
	Temperature  float64
	MaxTokens    int
	Stream       bool
	HistoryLimit int
	InferActions bool
}

// Enabled 表示是否提供了必需的密钥。
func (c LLMConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// NewChatModel 使用配置创建一个模型实例。The ark client speaks the
// OpenAI-compatible chat/completions protocol, so BaseURL may point at any
// compatible provider.
func (c LLMConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("GROQ_API_KEY or LLM_MODEL missing")
	}

	temperature := float32(c.Temperature)
	maxTokens := c.MaxTokens
	// 单次请求，失败直接返回给调用方。
	noRetry := 0

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		Model:       c.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		RetryTimes:  &noRetry,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadLLMConfig() (LLMConfig, error) {
	temperature := 0.7
	if override, err := parseOptionalFloatEnv("LLM_TEMPERATURE"); err != nil {
		return LLMConfig{}, err
	} else if override != nil {
		if *override < 0 || *override > 2 {
			return LLMConfig{}, fmt.Errorf("invalid LLM_TEMPERATURE value %v: must be within [0, 2]", *override)
		}
		temperature = *override
	}

	maxTokens := 1000
	if override, err := parseOptionalIntEnv("LLM_MAX_TOKENS"); err != nil {
		return LLMConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return LLMConfig{}, fmt.Errorf("invalid LLM_MAX_TOKENS value %d: must be positive", *override)
		}
		maxTokens = *override
	}

	historyLimit := 0
	if override, err := parseOptionalIntEnv("LLM_HISTORY_LIMIT"); err != nil {
		return LLMConfig{}, err
	} else if override != nil && *override > 0 {
		historyLimit = *override
	}

	stream, err := parseBoolEnv("LLM_STREAM", true)
	if err != nil {
		return LLMConfig{}, err
	}

	infer, err := parseBoolEnv("LLM_INFER_ACTIONS", false)
	if err != nil {
		return LLMConfig{}, err
	}

	return LLMConfig{
		APIKey:       strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		Model:        getEnvOrDefault("LLM_MODEL", "llama-3.3-70b-versatile"),
		BaseURL:      getEnvOrDefault("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		Region:       getEnvOrDefault("LLM_REGION", "us-east-1"),
		Temperature:  temperature,
		MaxTokens:    maxTokens,
		Stream:       stream,
		HistoryLimit: historyLimit,
		InferActions: infer,
	}, nil
}

// ContentConfig 描述可热更新的内容文件。
type ContentConfig struct {
	AssistantPath string
	PortfolioPath string
	WatchFiles    bool
}

func loadContentConfig() (ContentConfig, error) {
	watch, err := parseBoolEnv("WATCH_FILES", true)
	if err != nil {
		return ContentConfig{}, err
	}
	return ContentConfig{
		AssistantPath: strings.TrimSpace(os.Getenv("ASSISTANT_CONFIG")),
		PortfolioPath: strings.TrimSpace(os.Getenv("PORTFOLIO_DATA")),
		WatchFiles:    watch,
	}, nil
}

// RedisConfig 描述可选的 Redis 连接。
type RedisConfig struct {
	URL             string
	ContactStream   string
	VisitCounterKey string
}

// Enabled 表示是否配置了 Redis。
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		URL:             strings.TrimSpace(os.Getenv("REDIS_URL")),
		ContactStream:   getEnvOrDefault("CONTACT_STREAM", "portfolio:contact"),
		VisitCounterKey: getEnvOrDefault("VISIT_COUNTER_KEY", "portfolio:visits"),
	}
}

// DiscordConfig 描述可选的 Discord 频道接入。
type DiscordConfig struct {
	Token         string
	CommandPrefix string
}

// Enabled 表示是否提供了 Bot Token。
func (c DiscordConfig) Enabled() bool {
	return c.Token != ""
}

func loadDiscordConfig() DiscordConfig {
	prefix := os.Getenv("DISCORD_COMMAND_PREFIX")
	if strings.TrimSpace(prefix) == "" {
		prefix = "!ask "
	}
	return DiscordConfig{
		Token:         strings.TrimSpace(os.Getenv("DISCORD_BOT_TOKEN")),
		CommandPrefix: prefix,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
