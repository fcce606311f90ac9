package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. An optional
// .env file in the working directory is loaded first; real environment
// variables win over .env values (godotenv does not overwrite existing ones).
//
// Recognized variables:
//
//	HTTP_ADDR      bind address for the web surface
//	PUBLIC_HOST    externally reachable host for temporary links
//	DATABASE_URL   PostgreSQL DSN
//	S3_ACCESS_KEY  object storage access key
//	S3_SECRET_KEY  object storage secret key
//	S3_BUCKET      bucket name
//	S3_REGION      region
//	S3_ENDPOINT    base endpoint URL
func parseEnv(config *Config) {
	_ = godotenv.Load()

	overlay := func(dst *string, name string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}

	overlay(&config.EndpointAddrHTTP, "HTTP_ADDR")
	overlay(&config.PublicHost, "PUBLIC_HOST")
	overlay(&config.DatabaseDSN, "DATABASE_URL")
	overlay(&config.S3AccessKey, "S3_ACCESS_KEY")
	overlay(&config.S3SecretKey, "S3_SECRET_KEY")
	overlay(&config.S3Bucket, "S3_BUCKET")
	overlay(&config.S3Region, "S3_REGION")
	overlay(&config.S3BaseEndpoint, "S3_ENDPOINT")
}
