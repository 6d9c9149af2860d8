package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/klokku/eventfinder/internal/app"
	"github.com/klokku/eventfinder/internal/config"
	log "github.com/sirupsen/logrus"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "find" {
		os.Exit(find(os.Args[2:], os.Stdout))
	}

	configPath := flag.String("config", app.DefaultConfigPath, "Path to the YAML configuration file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	application, err := app.NewApplication(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}

// find runs a single query and prints the tool payload to stdout. It returns
// the process exit code: 0 on success, 1 when the payload carries an error,
// 2 on bad flags.
func find(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	configPath := fs.String("config", app.DefaultConfigPath, "Path to the YAML configuration file")
	city := fs.String("city", "", "City name filter (substring, case-insensitive)")
	month := fs.String("month", "", "Full English month name, e.g. April")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx := context.Background()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("failed to load configuration: %v", err)
		return 1
	}
	deps, err := app.BuildDependencies(ctx, cfg)
	if err != nil {
		log.Errorf("failed to initialize dependencies: %v", err)
		return 1
	}
	defer deps.Close()

	toolArgs, err := json.Marshal(map[string]string{"city": *city, "month": *month})
	if err != nil {
		log.Errorf("failed to encode arguments: %v", err)
		return 1
	}
	payload := deps.FinderTool.Call(ctx, toolArgs)
	fmt.Fprintln(stdout, string(payload))

	var failure struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &failure); err == nil && failure.Error != "" {
		return 1
	}
	return 0
}
