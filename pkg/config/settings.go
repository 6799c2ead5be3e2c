package config

import (
	"github.com/spf13/viper"
)

var ServiceConf *ServiceConfig

type RedisConfig struct {
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	Password string `mapstructure:"password" json:"password"`
}

// DBConfig relational store configuration.
// Driver selects the GORM dialector: "mysql" or "postgres".
type DBConfig struct {
	Driver   string `mapstructure:"driver" json:"driver"`
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	User     string `mapstructure:"user" json:"user"`
	Password string `mapstructure:"password" json:"password"`
	DbName   string `mapstructure:"dbname" json:"dbname"`
	LogLevel string `mapstructure:"logLevel" json:"logLevel"`
}

type MongoDB struct {
	Link string `mapstructure:"link" json:"link"`
}

type Upload struct {
	BasePath string `mapstructure:"basePath" json:"basePath"` // local storage root, e.g. ./data/images
	BaseURL  string `mapstructure:"baseURL" json:"baseURL"`   // public URL prefix, e.g. http://localhost:8080/static
}

// Safety sensitive-word filter configuration
type Safety struct {
	WordlistDir string `mapstructure:"wordlistDir" json:"wordlistDir"`
}

type Mailer struct {
	Host     string `mapstructure:"host" json:"host"`
	Port     string `mapstructure:"port" json:"port"`
	Username string `mapstructure:"username" json:"username"`
	Password string `mapstructure:"password" json:"password"`
}

type ServiceConfig struct {
	DB      DBConfig    `mapstructure:"db" json:"db"`
	RedisDB RedisConfig `mapstructure:"redis" json:"redis"`
	Mongo   MongoDB     `mapstructure:"mongo" json:"mongo"`
	Upload  Upload      `mapstructure:"upload" json:"upload"`
	Safety  Safety      `mapstructure:"safety" json:"safety"`
	Email   Mailer      `mapstructure:"mailer" json:"mailer"`
}

// InitConfig loads the infra sections of the config file into the global
// ServiceConf object. App-level config lives in internal/conf.
func InitConfig(configFile string) {
	// Instantiating an object
	v := viper.New()
	v.SetConfigFile(configFile)
	v.AutomaticEnv()

	// Reading in a file
	if err := v.ReadInConfig(); err != nil {
		panic(err)
	}

	// How to use the ServiceConf object in other files - global variable
	if err := v.Unmarshal(&ServiceConf); err != nil {
		panic(err)
	}
}
