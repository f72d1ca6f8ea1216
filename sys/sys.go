package sys

import (
	"database/sql"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Config contains all the configs gathered from env vars.
// It is built in main and handed to every component at construction,
// nothing reads configuration ambiently.
type Config struct {
	Http struct {
		Port            string
		ShutdownTimeout time.Duration
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		IdleTimeout     time.Duration
	}
	Swagger struct {
		Protocol string
		Host     string
	}
	Database struct {
		ConnectionURL    string
		PingTimeout      time.Duration
		OperationTimeout time.Duration
	}
	Cache struct {
		ConnectionURL    string
		User             string
		Pass             string
		PingTimeout      time.Duration
		OperationTimeout time.Duration
		CacheTTL         time.Duration
	}
	Blob struct {
		BucketURL        string
		OperationTimeout time.Duration
	}
	Auth struct {
		Secret string
	}
	Attachment struct {
		MaxSize int64
	}
	Messaging struct {
		TopicName       string
		MaxWorkers      int
		WaitTime        time.Duration
		PublishTimeout  time.Duration
		ShutdownTimeout time.Duration
	}
	Sweep struct {
		Interval time.Duration
		GraceAge time.Duration
	}
	NewRelic struct {
		AppName           string
		Licence           string
		Enabled           bool
		ConnectionTimeout time.Duration
		ShutdownTimeout   time.Duration
	}
}

// Resources holds the shared backends an app wires up during startup.
type Resources struct {
	Log      *zap.SugaredLogger
	Database *sql.DB
	Cache    *redis.Client
}
