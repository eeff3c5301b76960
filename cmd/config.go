package main

import "time"

type Config struct {
	Host              string        `env:"HOST,default=localhost"`
	Port              int           `env:"PORT,default=8080"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	MaxContentLength  int           `env:"MAX_CONTENT_LENGTH,default=2000"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	EventBufferSize   int           `env:"EVENT_BUFFER_SIZE,default=1024"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,default=2s"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	KafkaBrokers      string        `env:"KAFKA_BROKERS"`
	KafkaTopic        string        `env:"KAFKA_TOPIC,default=dm.message.created"`
	RedisAddr         string        `env:"REDIS_ADDR"`
	SendRateLimit     int64         `env:"SEND_RATE_LIMIT,default=30"`
	SendRateWindow    time.Duration `env:"SEND_RATE_WINDOW,default=1m"`
	OtelEndpoint      string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelServiceName   string        `env:"OTEL_SERVICE_NAME,default=dm-lab"`
	TraceSampleRatio  float64       `env:"OTEL_TRACE_SAMPLE_RATIO,default=1"`
}
