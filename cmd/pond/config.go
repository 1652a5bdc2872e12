package main

import (
	"github.com/spf13/viper"
)

// Config describes one pipeline run, normally loaded from pond.yml.
type Config struct {
	Source    string           `mapstructure:"source"`
	TimeField string           `mapstructure:"time_field"`
	Window    string           `mapstructure:"window"`
	GroupBy   string           `mapstructure:"group_by"`
	EmitOn    string           `mapstructure:"emit_on"`
	Aggregate []AggregateField `mapstructure:"aggregate"`
}

type AggregateField struct {
	Field   string `mapstructure:"field"`
	Reducer string `mapstructure:"reducer"`
}

func loadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("time_field", "time")
	v.SetDefault("emit_on", "discard")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
