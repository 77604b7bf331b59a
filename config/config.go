package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// SysConfig holds process-level settings.
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig holds the web server settings.
type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

// DBConfig holds database connection settings. Type is "sqlite" or
// "postgres"; sqlite stores a single database file under the workdir.
type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "invtrack",
		Location: "Asia/Jakarta",
		Workdir:  "/var/invtrack",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1829,
		Secret: "9b6de5cc-invtrack-1229-11e9-ab14",
	},
	Database: DBConfig{
		Type:     "sqlite",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "invtrack",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/invtrack/invtrack.log",
	},
}

func setEnvValue(name string, val *string) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = cast.ToInt(evalue)
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = cast.ToBool(evalue)
	}
}

// LoadConfig reads the yaml configuration file and applies INVTRACK_*
// environment overrides. A missing file yields the default configuration.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig

	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("INVTRACK_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("INVTRACK_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("INVTRACK_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("INVTRACK_WEB_HOST", &cfg.Web.Host)
	setEnvValue("INVTRACK_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("INVTRACK_WEB_PORT", &cfg.Web.Port)

	setEnvValue("INVTRACK_DB_TYPE", &cfg.Database.Type)
	setEnvValue("INVTRACK_DB_HOST", &cfg.Database.Host)
	setEnvValue("INVTRACK_DB_NAME", &cfg.Database.Name)
	setEnvValue("INVTRACK_DB_USER", &cfg.Database.User)
	setEnvValue("INVTRACK_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("INVTRACK_DB_PORT", &cfg.Database.Port)
	setEnvBoolValue("INVTRACK_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("INVTRACK_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("INVTRACK_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("INVTRACK_LOGGER_FILENAME", &cfg.Logger.Filename)

	return cfg
}

// InitDirs creates the runtime directory layout under the workdir.
func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(c.System.Workdir, 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "metrics"), 0755)
}
