package config

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

type SystemConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	JwtSecret string `yaml:"jwt_secret"`
	// JwtExpireMinutes bounds the lifetime of store login tokens.
	JwtExpireMinutes int `yaml:"jwt_expire_minutes"`
}

type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
	// LockTimeoutMs bounds how long an order transaction waits for a
	// contended inventory row before failing. Zero waits indefinitely.
	LockTimeoutMs int `yaml:"lock_timeout_ms"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SystemConfig `yaml:"system"`
	Web      WebConfig    `yaml:"web"`
	Database DBConfig     `yaml:"database"`
	Logger   LogConfig    `yaml:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SystemConfig{
		Appid:    "vendtix",
		Location: "Asia/Tokyo",
		Workdir:  "/var/vendtix",
		Debug:    true,
	},
	Web: WebConfig{
		Host:             "0.0.0.0",
		Port:             1816,
		JwtSecret:        "9b6bdb8c-vendtix-secret",
		JwtExpireMinutes: 30,
	},
	Database: DBConfig{
		Type:          "postgres",
		Host:          "127.0.0.1",
		Port:          5432,
		Name:          "vendtix",
		User:          "postgres",
		Passwd:        "",
		MaxConn:       100,
		IdleConn:      10,
		LockTimeoutMs: 5000,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/vendtix/vendtix.log",
	},
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v == "true" || v == "1" || v == "on"
	}
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing file falls back to DefaultAppConfig.
func LoadConfig(cfile string) *AppConfig {
	appcfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg := new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(fmt.Sprintf("config parse error: %v", err))
			}
			appcfg = cfg
		}
	}

	setEnvValue("VENDTIX_SYSTEM_WORKDIR", &appcfg.System.Workdir)
	setEnvValue("VENDTIX_DB_HOST", &appcfg.Database.Host)
	setEnvValue("VENDTIX_DB_NAME", &appcfg.Database.Name)
	setEnvValue("VENDTIX_DB_USER", &appcfg.Database.User)
	setEnvValue("VENDTIX_DB_PWD", &appcfg.Database.Passwd)
	setEnvValue("VENDTIX_WEB_JWT_SECRET", &appcfg.Web.JwtSecret)
	setEnvBoolValue("VENDTIX_SYSTEM_DEBUG", &appcfg.System.Debug)

	if appcfg.Logger.Filename == "" {
		appcfg.Logger.Filename = path.Join(appcfg.System.Workdir, "vendtix.log")
	}
	return appcfg
}
