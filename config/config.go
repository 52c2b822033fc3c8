package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug                    bool          `envconfig:"debug"`
	Port                     int           `envconfig:"port" default:"8080"`
	Env                      string        `envconfig:"env" default:"dev"`
	PostgresHost             string        `envconfig:"postgres_host"`
	PostgresUser             string        `envconfig:"postgres_user"`
	PostgresDB               string        `envconfig:"postgres_db"`
	PostgresPort             int           `envconfig:"postgres_port" default:"5432"`
	PostgresPassword         string        `envconfig:"postgres_password"`
	JWTSecret                string        `envconfig:"jwt_secret"`
	AccessControlAllowOrigin string        `envconfig:"access_control_allow_origin"`
	AWSRegion                string        `envconfig:"aws_region"`
	AWSBucket                string        `envconfig:"aws_bucket"`
	AWSAccessKeyID           string        `envconfig:"aws_access_key_id"`
	AWSSecretAccessKey       string        `envconfig:"aws_secret_access_key"`
	RefreshInterval          time.Duration `envconfig:"refresh_interval" default:"30s"`
	LoginRateLimit           uint          `envconfig:"login_rate_limit" default:"5"`
	AdminUsername            string        `envconfig:"admin_username" default:"admin"`
	AdminPassword            string        `envconfig:"admin_password"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("mopcdash", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
