package env

import (
	"os"
	"time"

	"go.uber.org/zap"
)

// OrDefault return the result of searching an env var, if the env var value is empty, return a default value
func OrDefault(log *zap.SugaredLogger, env, def string) string {
	value := os.Getenv(env)
	if value == "" {
		log.Infow("config", "env", env, "using default", def)
		return def
	}
	return value
}

// Must return the result of searching an env var, if the env var value is empty, logs and exits
func Must(log *zap.SugaredLogger, env string) string {
	value := os.Getenv(env)
	if value == "" {
		log.Fatalw("config", "env", env, "ERROR", "required env var is not set")
	}
	return value
}

// DurationDefault return the result of searching an env var, if the env var value is empty, return a default value as duration
func DurationDefault(log *zap.SugaredLogger, env, def string) time.Duration {
	orDefault := OrDefault(log, env, def)
	duration, err := time.ParseDuration(orDefault)
	if err != nil {
		log.Warn("error parsing ", orDefault, " as duration: ", err)
	}
	return duration
}

// BoolDefault return the result of searching an env var, if the env var value is empty, return a default value as bool
func BoolDefault(log *zap.SugaredLogger, env, def string) bool {
	orDefault := OrDefault(log, env, def)
	switch orDefault {
	case "t", "true", "1", "y", "yes":
		return true
	default:
		return false
	}
}
