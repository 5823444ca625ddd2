package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultKVType       = "memory"
	DefaultKVTTLSeconds = 60

	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisPassword = ""
	DefaultRedisDB       = 0
)

type (
	// KVConfig configures the read cache for catalog projections.
	KVConfig struct {
		Type       string        `mapstructure:"type" rule:"oneof=memory redis"`
		TTLSeconds int           `mapstructure:"ttl_seconds" rule:"min=0"`
		Redis      RedisKVConfig `mapstructure:"redis"`
	}

	// RedisKVConfig holds redis backend settings.
	RedisKVConfig struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	}
)

func (c *KVConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("kv.type", DefaultKVType)
	v.SetDefault("kv.ttl_seconds", DefaultKVTTLSeconds)
	v.SetDefault("kv.redis.addr", DefaultRedisAddr)
	v.SetDefault("kv.redis.password", DefaultRedisPassword)
	v.SetDefault("kv.redis.db", DefaultRedisDB)
}
