package coordinator

import (
	"github.com/spf13/viper"

	"github.com/ceyewan/fractal/xerrors"
)

// Config 协调者服务配置
type Config struct {
	// Host 监听地址（可选，默认监听所有接口）
	Host string `mapstructure:"host" yaml:"host" json:"host"`

	// Port 监听端口（可选，默认 5000）
	Port int `mapstructure:"port" yaml:"port" json:"port"`

	// Epoch 下发给所有节点的部署纪元，十进制毫秒字符串（必填）
	//
	// 一次部署内必须保持稳定，重启后修改会破坏跨节点的 ID 排序。
	Epoch string `mapstructure:"epoch" yaml:"epoch" json:"epoch"`

	// RatePerSecond /sync 每秒放行的请求数（可选，默认 100）
	RatePerSecond float64 `mapstructure:"rate_per_second" yaml:"rate_per_second" json:"rate_per_second"`

	// Burst 限流桶容量（可选，默认 200）
	Burst int `mapstructure:"burst" yaml:"burst" json:"burst"`
}

func (c *Config) setDefaults() {
	if c.Port <= 0 {
		c.Port = 5000
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = 100
	}
	if c.Burst <= 0 {
		c.Burst = 200
	}
}

func (c *Config) validate() error {
	if c.Port > 65535 {
		return xerrors.WithCode(ErrInvalidConfig, "port_out_of_range")
	}
	if c.Epoch == "" {
		return xerrors.WithCode(ErrInvalidConfig, "epoch_required")
	}
	if !isDecimalUint128(c.Epoch) {
		return xerrors.WithCode(ErrInvalidConfig, "epoch_not_decimal_uint128")
	}
	return nil
}

// LoadConfig 通过 viper 读取 yaml/json 配置文件
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, xerrors.Wrapf(err, "coordinator: read config %s", path)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, xerrors.Wrap(err, "coordinator: unmarshal config")
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isDecimalUint128 校验纪元字符串是否为 128 位以内的十进制无符号整数
func isDecimalUint128(s string) bool {
	if s == "" || len(s) > 39 { // 2^128-1 共 39 位十进制
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	if len(s) == 39 && s > "340282366920938463463374607431768211455" {
		return false
	}
	return true
}
