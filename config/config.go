package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	AWS      AWSConfig      `mapstructure:"aws"`
	Groq     GroqConfig     `mapstructure:"groq"`
	Ranking  RankingConfig  `mapstructure:"ranking"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type AWSConfig struct {
	Region   string `mapstructure:"region"`
	S3Bucket string `mapstructure:"s3_bucket"`
}

// GroqConfig configures the external text-generation service. The Groq API is
// OpenAI-compatible, so the client only needs a base URL override.
type GroqConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type RankingConfig struct {
	DailyCap            int `mapstructure:"daily_cap"`
	PoolLimit           int `mapstructure:"pool_limit"`
	TimezoneOffsetHours int `mapstructure:"timezone_offset_hours"`
}

type AnalysisConfig struct {
	FirstAnalysisSwipes int `mapstructure:"first_analysis_swipes"`
	ReanalysisStreak    int `mapstructure:"reanalysis_streak"`
	RecentSwipeLimit    int `mapstructure:"recent_swipe_limit"`
	ReanalysisCardCount int `mapstructure:"reanalysis_card_count"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("aws.region", "ap-northeast-2")
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.model", "openai/gpt-oss-120b")
	v.SetDefault("groq.temperature", 0.7)
	v.SetDefault("groq.max_tokens", 8192)
	v.SetDefault("groq.timeout", 10*time.Second)
	v.SetDefault("ranking.daily_cap", 30)
	v.SetDefault("ranking.pool_limit", 1000)
	v.SetDefault("ranking.timezone_offset_hours", 9)
	v.SetDefault("analysis.first_analysis_swipes", 5)
	v.SetDefault("analysis.reanalysis_streak", 5)
	v.SetDefault("analysis.recent_swipe_limit", 10)
	v.SetDefault("analysis.reanalysis_card_count", 5)

	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Environment overrides for deployment secrets
	if port := v.GetString("PORT"); port != "" {
		config.Server.Port = port
	}
	if region := v.GetString("AWS_REGION"); region != "" {
		config.AWS.Region = region
	}
	if bucket := v.GetString("S3_BUCKET_NAME"); bucket != "" {
		config.AWS.S3Bucket = bucket
	}
	if apiKey := v.GetString("GROQ_API_KEY"); apiKey != "" {
		config.Groq.APIKey = apiKey
	}

	return &config, nil
}
