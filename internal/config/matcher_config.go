package config

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type MatcherConfig struct {
	WebhookURL           string  `mapstructure:"webhook_url" validate:"required,url"`
	MaxRequestsPerSecond float32 `mapstructure:"max_requests_per_second" validate:"gte=0"`
}

func (config MatcherConfig) validate() error {
	if err := validator.New().Struct(config); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return validationErrors
		}
		return err
	}
	return nil
}

func (config MatcherConfig) bindEnvironmentVariables() error {
	if err := viper.BindEnv("matcher.webhook_url", "MATCHER_WEBHOOK_URL"); err != nil {
		return err
	}
	return viper.BindEnv("matcher.max_requests_per_second", "MATCHER_MAX_REQUESTS_PER_SECOND")
}
