// Package config 提供基于 viper 的配置加载。
// 配置来源优先级：环境变量（YAOJIN_ 前缀）> 配置文件 > 默认值。
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Weibo  WeiboConfig  `mapstructure:"weibo"`
	Douban DoubanConfig `mapstructure:"douban"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug / info / warn / error
	Format string `mapstructure:"format"` // json / text
}

// LLMConfig 大模型网关配置
type LLMConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	Model         string        `mapstructure:"model"`
	ImageModel    string        `mapstructure:"image_model"`
	Timeout       time.Duration `mapstructure:"timeout"`        // 非流式请求整体超时
	StreamTimeout time.Duration `mapstructure:"stream_timeout"` // 流式响应相邻数据块的停滞上限
}

// WeiboConfig 微博热搜抓取配置
type WeiboConfig struct {
	APIURL string `mapstructure:"api_url"`
	Cookie string `mapstructure:"cookie"`
}

// DoubanConfig 豆瓣新片榜抓取配置
type DoubanConfig struct {
	ChartURL string `mapstructure:"chart_url"`
	Cookie   string `mapstructure:"cookie"`
}

// CacheConfig 外部抓取结果的缓存时长
type CacheConfig struct {
	TrendsTTL time.Duration `mapstructure:"trends_ttl"`
	MoviesTTL time.Duration `mapstructure:"movies_ttl"`
}

// Load 读取配置文件并叠加环境变量。
// path 为空时按默认搜索路径查找 config.yaml。
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("llm.base_url", "https://api.openai.com")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.image_model", "dall-e-3")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.stream_timeout", 30*time.Second)
	v.SetDefault("weibo.api_url", "https://m.weibo.cn/api/container/getIndex?containerid=106003type%3D25%26t%3D3%26disable_hot%3D1%26filter_type%3Drealtimehot")
	v.SetDefault("douban.chart_url", "https://movie.douban.com/chart")
	v.SetDefault("cache.trends_ttl", 10*time.Minute)
	v.SetDefault("cache.movies_ttl", time.Hour)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("YAOJIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时仅靠默认值和环境变量运行
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验必填项
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required (or set YAOJIN_LLM_API_KEY)")
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}

// ServerAddr 返回监听地址
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
