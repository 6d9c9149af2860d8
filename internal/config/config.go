package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Application struct {
	Server   Server   `koanf:"server"`
	Data     Data     `koanf:"data"`
	Database Database `koanf:"db"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Data struct {
	// Source is either "file" or "postgres".
	Source string `koanf:"source"`
	Path   string `koanf:"path"`
	// Cache keeps the parsed file between calls until it changes on disk.
	Cache bool `koanf:"cache"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func Defaults() Application {
	return Application{
		Server: Server{
			Addr: ":8181",
		},
		Data: Data{
			Source: SourceFile,
			Path:   "data/find_events_data.json",
			Cache:  false,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "eventfinder",
			Pass:   "",
			Name:   "eventfinder",
			Schema: "eventfinder",
		},
	}
}

// Load layers defaults, the optional YAML file at path and EVENTFINDER_*
// environment variables, later layers winning.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: "EVENTFINDER_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "EVENTFINDER_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
