package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	S3        S3Config        `yaml:"s3"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Algorithm AlgorithmConfig `yaml:"algorithm"`
	Recommend RecommendConfig `yaml:"recommend"`
	Emotions  EmotionsConfig  `yaml:"emotions"`
	Server    ServerConfig    `yaml:"server"`
	App       AppSpecific     `yaml:"app"`
}

// S3Config — настройки объектного хранилища.
type S3Config struct {
	Endpoint     string `yaml:"endpoint"`
	Region       string `yaml:"region"`
	Bucket       string `yaml:"bucket"`
	AccessKey    string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey    string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL       bool   `yaml:"use_ssl"`
	CustomDomain string `yaml:"custom_domain"` // Публичный CDN-домен (опционально)
}

// CatalogConfig — настройки каталога стикеров в хранилище.
type CatalogConfig struct {
	RootPrefix  string        `yaml:"root_prefix"` // Корневая папка, например "sably/"
	Extensions  []string      `yaml:"extensions"`  // Допустимые расширения файлов
	CacheFile   string        `yaml:"cache_file"`  // Путь к JSON-кэшу метаданных
	CacheTTL    time.Duration `yaml:"cache_ttl"`   // Время жизни кэша ("24h")
	ListTimeout time.Duration `yaml:"list_timeout"`
}

// AlgorithmConfig — веса и бонусы алгоритма матчинга.
//
// Сумма KeywordWeight + SemanticWeight должна быть равна 1.0
// (допуск weightEpsilon). Проверяется один раз при загрузке конфига,
// а не по месту использования.
type AlgorithmConfig struct {
	KeywordWeight     float64 `yaml:"keyword_weight"`
	SemanticWeight    float64 `yaml:"semantic_weight"`
	DirectMatchBonus  float64 `yaml:"direct_match_bonus"`
	EmotionMatchBonus float64 `yaml:"emotion_match_bonus"`
}

// RecommendConfig — параметры выдачи рекомендаций.
type RecommendConfig struct {
	DefaultTopK int `yaml:"default_top_k"`
	MinTopK     int `yaml:"min_top_k"`
	MaxTopK     int `yaml:"max_top_k"`

	// RefreshMinInterval — минимальный интервал между форсированными
	// перестройками индекса. Защита от шквала /refresh запросов.
	RefreshMinInterval time.Duration `yaml:"refresh_min_interval"`
}

// EmotionsConfig — источник словаря эмоций.
type EmotionsConfig struct {
	DictionaryFile string `yaml:"dictionary_file"` // Пусто = встроенный словарь
}

// ServerConfig — настройки HTTP API.
type ServerConfig struct {
	Listen      string     `yaml:"listen"`
	CORSOrigins []string   `yaml:"cors_origins"`
	Auth        AuthConfig `yaml:"auth"`
}

// AuthConfig — Basic Auth для API.
type AuthConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Username string `yaml:"username"` // Поддерживает ${VAR}
	Password string `yaml:"password"` // Поддерживает ${VAR}
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug bool `yaml:"debug"`
}

// weightEpsilon — допустимая погрешность суммы весов алгоритма.
const weightEpsilon = 0.001

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Парсим YAML в структуру
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	cfg.applyDefaults()

	// 5. Валидируем критические настройки
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults заполняет незаданные поля дефолтными значениями.
func (c *AppConfig) applyDefaults() {
	if c.Catalog.RootPrefix == "" {
		c.Catalog.RootPrefix = "sably/"
	}
	if len(c.Catalog.Extensions) == 0 {
		c.Catalog.Extensions = []string{".gif", ".jpg", ".jpeg", ".png", ".webp"}
	}
	if c.Catalog.CacheFile == "" {
		c.Catalog.CacheFile = "sably_metadata.json"
	}
	if c.Catalog.CacheTTL == 0 {
		c.Catalog.CacheTTL = 24 * time.Hour
	}
	if c.Catalog.ListTimeout == 0 {
		c.Catalog.ListTimeout = 2 * time.Minute
	}

	if c.Algorithm.KeywordWeight == 0 && c.Algorithm.SemanticWeight == 0 {
		c.Algorithm.KeywordWeight = 0.7
		c.Algorithm.SemanticWeight = 0.3
	}
	if c.Algorithm.DirectMatchBonus == 0 {
		c.Algorithm.DirectMatchBonus = 1.0
	}
	if c.Algorithm.EmotionMatchBonus == 0 {
		c.Algorithm.EmotionMatchBonus = 0.5
	}

	if c.Recommend.DefaultTopK == 0 {
		c.Recommend.DefaultTopK = 1
	}
	if c.Recommend.MinTopK == 0 {
		c.Recommend.MinTopK = 1
	}
	if c.Recommend.MaxTopK == 0 {
		c.Recommend.MaxTopK = 10
	}
	if c.Recommend.RefreshMinInterval == 0 {
		c.Recommend.RefreshMinInterval = 30 * time.Second
	}

	if c.Server.Listen == "" {
		c.Server.Listen = ":8000"
	}
}

// Validate проверяет обязательные поля и согласованность настроек.
func (c *AppConfig) Validate() error {
	if c.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required")
	}
	if c.S3.Endpoint == "" {
		return fmt.Errorf("s3.endpoint is required")
	}
	if !strings.HasSuffix(c.Catalog.RootPrefix, "/") {
		return fmt.Errorf("catalog.root_prefix must end with '/': %q", c.Catalog.RootPrefix)
	}
	if c.Catalog.CacheTTL <= 0 {
		return fmt.Errorf("catalog.cache_ttl must be positive")
	}
	if err := c.Algorithm.ValidateWeights(); err != nil {
		return err
	}
	if c.Recommend.MinTopK < 1 {
		return fmt.Errorf("recommend.min_top_k must be >= 1")
	}
	if c.Recommend.MaxTopK < c.Recommend.MinTopK {
		return fmt.Errorf("recommend.max_top_k (%d) must be >= min_top_k (%d)",
			c.Recommend.MaxTopK, c.Recommend.MinTopK)
	}
	if err := c.Recommend.ValidateTopK(c.Recommend.DefaultTopK); err != nil {
		return fmt.Errorf("recommend.default_top_k: %w", err)
	}
	if c.Server.Auth.Enabled && (c.Server.Auth.Username == "" || c.Server.Auth.Password == "") {
		return fmt.Errorf("server.auth.username and server.auth.password are required when auth is enabled")
	}
	return nil
}

// ValidateWeights проверяет что веса алгоритма в сумме дают 1.0.
func (a AlgorithmConfig) ValidateWeights() error {
	total := a.KeywordWeight + a.SemanticWeight
	if math.Abs(total-1.0) > weightEpsilon {
		return fmt.Errorf("algorithm weights must sum to 1.0, got %.3f", total)
	}
	return nil
}

// ValidateTopK проверяет что top_k попадает в сконфигурированные границы.
//
// Нарушение границ — ошибка валидации, а не повод молча обрезать значение.
func (r RecommendConfig) ValidateTopK(topK int) error {
	if topK < r.MinTopK {
		return fmt.Errorf("top_k must be >= %d, got %d", r.MinTopK, topK)
	}
	if topK > r.MaxTopK {
		return fmt.Errorf("top_k must be <= %d, got %d", r.MaxTopK, topK)
	}
	return nil
}
