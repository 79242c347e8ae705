package infra

import (
	"encoding/json"
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix env prefix for viper
const EnvPrefix = "PREP"

// runtime environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// AppConfig App option object
type AppConfig struct {
	AppID          string        `mapstructure:"app_id" json:"app_id" yaml:"app_id" validate:"required"`            // Application ID
	Host           string        `mapstructure:"host" json:"host" yaml:"host"`                                      // bind host address
	Port           int           `mapstructure:"port" json:"port" yaml:"port" validate:"min=1"`                     // bind listen port
	Env            string        `mapstructure:"env" json:"env" yaml:"env" validate:"oneof=development production"` // runtime environment
	RequestTimeout time.Duration `mapstructure:"request_timeout" json:"request_timeout" yaml:"request_timeout"`     // abort request after
	API            struct {
		BaseURL string        `mapstructure:"base_url" json:"base_url" yaml:"base_url" validate:"required,url"`
		Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"` // zero means no timeout
	} `mapstructure:"api" json:"api" yaml:"api"`
	Session struct {
		CookieName string        `mapstructure:"cookie_name" json:"cookie_name" yaml:"cookie_name" validate:"required"`
		TTL        time.Duration `mapstructure:"ttl" json:"ttl" yaml:"ttl"`                                 // fallback lifetime of a stored token
		IDLength   int           `mapstructure:"id_length" json:"id_length" yaml:"id_length" validate:"min=16"` // length of generated session ID
		Secure     bool          `mapstructure:"secure" json:"secure" yaml:"secure"`                         // cookie secure flag
	} `mapstructure:"session" json:"session" yaml:"session"`
	Database struct {
		Driver   string `mapstructure:"driver" json:"driver" yaml:"driver" validate:"oneof=mysql postgres"`           // driver name
		Host     string `mapstructure:"host" json:"host" yaml:"host" validate:"required"`                            // server host
		MaxConn  int32  `mapstructure:"maxconn" json:"maxconn" yaml:"maxconn" validate:"min=1"`                      // maximum opening connections number
		Password string `mapstructure:"password" json:"password" yaml:"password"`                                    // db password
		Port     int    `mapstructure:"port" json:"port" yaml:"port"`                                                // server port
		Protocol string `mapstructure:"protocol" json:"protocol" yaml:"protocol" validate:"omitempty,oneof=tcp udp"` // connection protocol, eg.tcp
		Query    string `mapstructure:"query" json:"query" yaml:"query"`                                             // DSN query parameter
		Schema   string `mapstructure:"schema" json:"schema" yaml:"schema" validate:"required"`                      // use schema
		User     string `mapstructure:"username" json:"username" yaml:"username" validate:"required"`                // db username
	} `mapstructure:"database" json:"database" yaml:"database"`
	Logging struct {
		FilePath string `mapstructure:"file_path" json:"file_path" yaml:"file_path"`                            // log file path
		Level    string `mapstructure:"level" json:"level" yaml:"level" validate:"oneof=debug info warn error"` // global logging level
	} `mapstructure:"logging" json:"logging" yaml:"logging"`
	KVStore struct {
		Host     string `mapstructure:"host" json:"host" yaml:"host"` // empty host keeps sessions in process memory
		Port     int    `mapstructure:"port" json:"port" yaml:"port"`
		Password string `mapstructure:"password" json:"password" yaml:"password"`
		DB       int    `mapstructure:"db" json:"db" yaml:"db"`
	} `mapstructure:"kv" json:"kv" yaml:"kv"`
	Capture struct {
		ClipLength time.Duration `mapstructure:"clip_length" json:"clip_length" yaml:"clip_length" validate:"min=1000000000"` // fixed answer clip length
		MaxUpload  int64         `mapstructure:"max_upload" json:"max_upload" yaml:"max_upload"`                             // clip upload limit in bytes
	} `mapstructure:"capture" json:"capture" yaml:"capture"`
	Resume struct {
		MaxUpload int64 `mapstructure:"max_upload" json:"max_upload" yaml:"max_upload"` // resume upload limit in bytes, zero means no limit
	} `mapstructure:"resume" json:"resume" yaml:"resume"`
	Roadmaps struct {
		File string `mapstructure:"file" json:"file" yaml:"file"` // optional YAML catalog override
	} `mapstructure:"roadmaps" json:"roadmaps" yaml:"roadmaps"`
	DevOP struct {
		APM bool `mapstructure:"apm" json:"apm" yaml:"apm"`
	} `mapstructure:"devop" json:"devop" yaml:"devop"`
}

// InitConfig init app config using viper
func InitConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using flags and environment variables")
	}

	// app
	pflag.String("host", "", "binding address")
	pflag.String("app_id", "", "application identifier (required)")
	pflag.String("env", EnvDevelopment, "runtime environment, can be 'development' or 'production'")
	pflag.Int("port", 8081, "listening port")
	pflag.Duration("request_timeout", 0, "abort a request after the given duration, 0 disables it")

	// remote api
	pflag.String("api.base_url", "http://localhost:8000", "interview prep API base URL")
	pflag.Duration("api.timeout", 0, "timeout of a single API call, 0 means no timeout")

	// session
	pflag.String("session.cookie_name", "prep_sid", "cookie name to store the session ID")
	pflag.Duration("session.ttl", 24*time.Hour, "token lifetime when the token carries no exp claim")
	pflag.Int("session.id_length", 24, "length of generated session ID")
	pflag.Bool("session.secure", false, "mark the session cookie as secure")

	// database
	pflag.String("database.driver", "mysql", "database driver to use, can be 'mysql' or 'postgres'")
	pflag.String("database.host", "127.0.0.1", "database host")
	pflag.Int("database.port", 3306, "database server port")
	pflag.String("database.protocol", "", "connection protocol(if mysql is used, this flag must be set), eg.tcp")
	pflag.String("database.username", "", "database username (required)")
	pflag.String("database.password", "", "database password")
	pflag.String("database.schema", "", "database schema (required)")
	pflag.String("database.query", "", `additional DSN query parameters('?' is auto prefixed), if you work with mysql and wish to
work with time.Time, you may specify "parseTime=true"`)
	pflag.Int32("database.maxconn", 20, "max connection count")

	// logging
	pflag.String("logging.level", "info", "logging level")
	pflag.String("logging.file_path", "", "log to file")

	// kv storage
	pflag.String("kv.host", "", "kv host, leave empty to keep sessions in memory")
	pflag.Int("kv.port", 6379, "kv server port")
	pflag.String("kv.password", "", "kv server password")
	pflag.Int("kv.db", 0, "kv database index")

	// capture
	pflag.Duration("capture.clip_length", 2*time.Minute, "fixed length of a recorded answer clip")
	pflag.Int64("capture.max_upload", 64<<20, "maximum size of an uploaded answer clip in bytes")

	// resume
	pflag.Int64("resume.max_upload", 5<<20, "maximum size of an uploaded resume in bytes")

	// roadmaps
	pflag.String("roadmaps.file", "", "YAML file overriding the built-in roadmap catalog")

	// DevOp
	pflag.Bool("devop.apm", false, "enable apm metrics")

	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config = new(AppConfig)
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	if config.Logging.Level == "debug" {
		if configJSON, err := json.MarshalIndent(config, "", "  "); err == nil {
			log.Printf("App config: %s\n", string(configJSON))
		}
	}
	return config, nil
}

func validateConfig(config *AppConfig) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "-" || name == "" {
			name = fld.Tag.Get("yaml")
			if name == "-" || name == "" {
				return ""
			}
		}
		return name
	})
	err := validate.Struct(config)
	if _, ok := err.(*validator.InvalidValidationError); ok {
		return fmt.Errorf("failed to validate config: %w", err)
	}
	if err == nil {
		return nil
	}

	var msg []string
	for _, field := range err.(validator.ValidationErrors) {
		namespace := field.Namespace()
		fieldName := namespace[strings.IndexByte(namespace, '.')+1:] // trim top level namespace
		switch field.Tag() {
		case "required":
			msg = append(msg, fmt.Sprintf("%s is required", fieldName))
		case "oneof":
			msg = append(msg, fmt.Sprintf("%s must be one of (%s)", fieldName, field.Param()))
		case "min":
			msg = append(msg, fmt.Sprintf("%s must be at least %s", fieldName, field.Param()))
		case "url":
			msg = append(msg, fmt.Sprintf("%s must be a valid URL", fieldName))
		}
	}
	if len(msg) > 0 {
		return fmt.Errorf("failed to validate config: \n%s", strings.Join(msg, "\n"))
	}
	return nil
}
