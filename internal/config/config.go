package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ErrConfigMissing 缺少必需配置项
var ErrConfigMissing = errors.New("missing required configuration")

// MissingKeysError 列出所有缺失的必需配置项
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	lines := make([]string, 0, len(e.Keys))
	for _, k := range e.Keys {
		lines = append(lines, "  - "+k)
	}
	return fmt.Sprintf("missing required environment variables:\n%s\n\n"+
		"set them in the environment or in config.yaml under the sui section",
		strings.Join(lines, "\n"))
}

func (e *MissingKeysError) Is(target error) bool {
	return target == ErrConfigMissing
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Sui      SuiConfig      `mapstructure:"sui"`
	AI       AIConfig       `mapstructure:"ai"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	APIToken       string   `mapstructure:"api_token"`       // 写操作接口的 Bearer 令牌，未配置时写操作一律拒绝
	AllowedOrigins []string `mapstructure:"allowed_origins"` // 允许跨域调用写操作的来源
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// SuiConfig 链上配置
type SuiConfig struct {
	PackageID    string `mapstructure:"package_id"`    // Move 包ID
	CampaignsID  string `mapstructure:"campaigns_id"`  // 活动注册表对象ID
	AdminAddress string `mapstructure:"admin_address"` // 管理员地址
	Network      string `mapstructure:"network"`       // mainnet, testnet, devnet, localnet
	RpcUrl       string `mapstructure:"rpc_url"`       // 覆盖默认的全节点URL
	SignerKey    string `mapstructure:"signer_key"`    // 服务端签名私钥（可选）
	GasBudget    uint64 `mapstructure:"gas_budget"`    // 单笔交易gas预算（MIST）
	Module       string `mapstructure:"module"`        // Move 模块名
}

// AIConfig 捐赠建议配置
type AIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type TaskConfig struct {
	RefreshInterval  int `mapstructure:"refresh_interval"`  // 秒
	ActivityInterval int `mapstructure:"activity_interval"` // 秒
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

// 必需的环境变量与配置键的对应关系
var requiredKeys = []struct {
	env string
	key string
}{
	{"SUI_PACKAGE_ID", "sui.package_id"},
	{"SUI_CAMPAIGNS_ID", "sui.campaigns_id"},
	{"SUI_ADMIN_ADDRESS", "sui.admin_address"},
}

// 可选的环境变量
var optionalEnv = map[string]string{
	"sui.network":            "SUI_NETWORK",
	"sui.rpc_url":            "SUI_RPC_URL",
	"sui.signer_key":         "SUI_SIGNER_KEY",
	"sui.gas_budget":         "SUI_GAS_BUDGET",
	"ai.api_key":             "GEMINI_API_KEY",
	"server.port":            "PORT",
	"server.api_token":       "SUICARE_API_TOKEN",
	"database.enabled":       "DATABASE_ENABLED",
	"database.host":          "DATABASE_HOST",
	"database.password":      "DATABASE_PASSWORD",
	"task.refresh_interval":  "REFRESH_INTERVAL",
	"task.activity_interval": "ACTIVITY_INTERVAL",
	"log.level":              "LOG_LEVEL",
}

// Load 加载配置并校验必需项
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/suicare")
	return read(v)
}

// LoadFile 从指定文件加载配置
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Load()
	}
	v := viper.New()
	v.SetConfigFile(path)
	return read(v)
}

func read(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper 从已有的 viper 实例解析配置
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	for _, rk := range requiredKeys {
		_ = v.BindEnv(rk.key, rk.env, "NEXT_PUBLIC_"+rk.env)
	}
	for key, env := range optionalEnv {
		_ = v.BindEnv(key, env)
	}
	_ = v.BindEnv("sui.network", "SUI_NETWORK", "NEXT_PUBLIC_SUI_NETWORK")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验必需项与网络取值
func (c *Config) Validate() error {
	values := map[string]string{
		"SUI_PACKAGE_ID":    c.Sui.PackageID,
		"SUI_CAMPAIGNS_ID":  c.Sui.CampaignsID,
		"SUI_ADMIN_ADDRESS": c.Sui.AdminAddress,
	}

	var missing []string
	for _, rk := range requiredKeys {
		if strings.TrimSpace(values[rk.env]) == "" {
			missing = append(missing, rk.env)
		}
	}
	if len(missing) > 0 {
		return &MissingKeysError{Keys: missing}
	}

	if _, err := ParseNetwork(c.Sui.Network); err != nil {
		return err
	}
	if c.Task.RefreshInterval <= 0 {
		return fmt.Errorf("task.refresh_interval must be positive, got %d", c.Task.RefreshInterval)
	}
	if c.Task.ActivityInterval <= 0 {
		return fmt.Errorf("task.activity_interval must be positive, got %d", c.Task.ActivityInterval)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "suicare")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("sui.network", string(NetworkTestnet))
	v.SetDefault("sui.gas_budget", 10_000_000)
	v.SetDefault("sui.module", "sui_care")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("task.refresh_interval", 30)
	v.SetDefault("task.activity_interval", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/app.log")
}
