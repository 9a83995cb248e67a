package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type StoreConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
}

func (config StoreConfig) validate() error {
	if config.ConnectionString == "" {
		return fmt.Errorf("missing variable: store connection string")
	}
	return nil
}

func (config StoreConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("store.connection_string", "STORE_CONNECTION_STRING")
}
