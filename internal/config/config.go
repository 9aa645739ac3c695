// Package config загружает настройки хостов реестра задач (HTTP-сервер, CLI).
//
// Источники по возрастанию приоритета: значения по умолчанию,
// YAML-файл (если указан), переменные окружения TASKS_*.
// Например TASKS_ADDR=":9090" или TASKS_ADMIN_USER=admin.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix — префикс переменных окружения.
const EnvPrefix = "TASKS"

// Config — настройки хостов. Самому реестру конфигурация не нужна.
type Config struct {
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Admin          AdminConfig   `mapstructure:"admin"`
	Color          bool          `mapstructure:"color"`
}

// AdminConfig — учётные данные для удаляющих роутов. Пустой User отключает Basic Auth.
type AdminConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// Default возвращает настройки по умолчанию.
func Default() *Config {
	return &Config{
		Addr:           ":8080",
		RequestTimeout: 2 * time.Second,
	}
}

// Load собирает конфиг. path может быть пустым: тогда читаются только
// значения по умолчанию и окружение.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Без SetDefault viper не знает ключей и Unmarshal не увидит окружение.
	v.SetDefault("addr", cfg.Addr)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("admin.user", cfg.Admin.User)
	v.SetDefault("admin.password", cfg.Admin.Password)
	v.SetDefault("color", cfg.Color)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
