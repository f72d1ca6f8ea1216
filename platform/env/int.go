package env

import (
	"strconv"

	"go.uber.org/zap"
)

// IntDefault return the result of searching an env var, if the env var value is empty, return a default value as int
func IntDefault(log *zap.SugaredLogger, env, def string) int {
	orDefault := OrDefault(log, env, def)
	value, err := strconv.Atoi(orDefault)
	if err != nil {
		log.Warn("error parsing ", orDefault, " as int: ", err)
	}
	return value
}

// Int64Default return the result of searching an env var, if the env var value is empty, return a default value as int64
func Int64Default(log *zap.SugaredLogger, env, def string) int64 {
	orDefault := OrDefault(log, env, def)
	value, err := strconv.ParseInt(orDefault, 10, 64)
	if err != nil {
		log.Warn("error parsing ", orDefault, " as int64: ", err)
	}
	return value
}
