package config

import (
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/liran/mongodata"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const connectionStringsEnv = "MONGODATA_CONNECTION_STRINGS_"

// Config holds the connection string table and data context settings.
type Config struct {
	ConnectionStrings map[string]string `mapstructure:"connection_strings"`
	Mongo             MongoConfig       `mapstructure:"mongo"`
	Log               LogConfig         `mapstructure:"log"`
}

type MongoConfig struct {
	ClientName  string `mapstructure:"client_name"`
	ContextName string `mapstructure:"context_name"`
	// Contexts lists extra context names sharing ClientName, used by the ping command.
	Contexts          []string `mapstructure:"contexts"`
	DisconnectOnClose bool     `mapstructure:"disconnect_on_close"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output
}

// Load reads a .env file if present, then configuration from file and environment
// variables. Environment variables override file values, prefix MONGODATA_, nested keys
// joined by underscore: MONGODATA_LOG_LEVEL. Every MONGODATA_CONNECTION_STRINGS_<NAME>
// variable is read, so a connection string can be added from the environment alone;
// <NAME> is matched without regard to case.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "loading .env")
	}

	v := viper.New()

	v.SetDefault("connection_strings."+strings.ToLower(mongodata.DefaultClientName), "mongodb://localhost:27017")
	v.SetDefault("connection_strings."+strings.ToLower(mongodata.DefaultContextName), "app")
	v.SetDefault("mongo.client_name", mongodata.DefaultClientName)
	v.SetDefault("mongo.context_name", mongodata.DefaultContextName)
	v.SetDefault("mongo.contexts", []string{})
	v.SetDefault("mongo.disconnect_on_close", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mongodata")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("MONGODATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindConnectionStrings(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}

// bindConnectionStrings registers connection string keys that only exist in the
// environment. AutomaticEnv alone covers keys viper already knows from defaults or the file.
func bindConnectionStrings(v *viper.Viper) {
	for _, kv := range os.Environ() {
		env, _, _ := strings.Cut(kv, "=")
		name, ok := strings.CutPrefix(env, connectionStringsEnv)
		if !ok || name == "" {
			continue
		}
		_ = v.BindEnv("connection_strings."+strings.ToLower(name), env)
	}
}

// Strings returns the connection string table. Viper folds keys to lower case, so
// lookups ignore case.
func (c *Config) Strings() mongodata.ConnectionStrings {
	m := make(foldedStrings, len(c.ConnectionStrings))
	for k, v := range c.ConnectionStrings {
		m[strings.ToLower(k)] = v
	}
	return m
}

// Options turns the configuration into data context options for contextName. An
// empty contextName means Mongo.ContextName.
func (c *Config) Options(contextName string) []mongodata.Option {
	if contextName == "" {
		contextName = c.Mongo.ContextName
	}
	return []mongodata.Option{
		mongodata.WithNames(c.Mongo.ClientName, contextName),
		mongodata.WithConnectionStrings(c.Strings()),
		mongodata.WithDisconnectOnClose(c.Mongo.DisconnectOnClose),
	}
}

type foldedStrings map[string]string

func (f foldedStrings) ConnectionString(name string) (string, bool) {
	v, ok := f[strings.ToLower(name)]
	return v, ok && v != ""
}
