// cmd/tools/fingerprint/main.go
//
// Prints the dataset fingerprint for a data directory and, when an
// artifacts directory is given, compares it against the stored one so
// operators can tell ahead of a deploy whether cached artifacts will load.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"kpi-prediction-service/internal/common/config"
	"kpi-prediction-service/internal/model"
)

func main() {
	dataDir := flag.String("data", "./data", "Training data directory")
	files := flag.String("files", "", "Comma-separated file list (default: canonical set)")
	configPath := flag.String("config", "", "Config file to read the file list from (default: search standard locations)")
	artifactsDir := flag.String("artifacts", "", "Artifacts directory to compare against (optional)")
	flag.Parse()

	fileList := defaultFiles(*configPath)
	if *files != "" {
		fileList = strings.Split(*files, ",")
	}

	fingerprint, err := model.ComputeFingerprint(*dataDir, fileList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("dataset fingerprint: %s\n", fingerprint)

	if *artifactsDir == "" {
		return
	}

	stored := model.StoredFingerprint(*artifactsDir)
	switch {
	case stored == "":
		fmt.Println("stored fingerprint:  (none)")
		fmt.Println("result: MISS - no cached artifacts")
		os.Exit(2)
	case stored == fingerprint:
		fmt.Printf("stored fingerprint:  %s\n", stored)
		fmt.Println("result: MATCH - cached artifacts will load")
	default:
		fmt.Printf("stored fingerprint:  %s\n", stored)
		fmt.Println("result: STALE - cached artifacts will be rejected")
		os.Exit(2)
	}
}

// defaultFiles mirrors the config loader's canonical data-file set.
func defaultFiles(configPath string) []string {
	var cfg config.Config
	if configPath != "" {
		if loaded, err := config.LoadFromFile(configPath); err == nil {
			cfg = *loaded
		}
	} else if loaded, err := config.Load(); err == nil {
		cfg = *loaded
	}
	if len(cfg.Data.Files) > 0 {
		return cfg.Data.Files
	}
	return []string{
		"o2c_data_orders_only.xml",
		"users.csv",
		"items.csv",
		"suppliers.csv",
		"order_kpis.csv",
		"orders_enriched.csv",
		"order_users.csv",
		"order_items.csv",
		"order_suppliers.csv",
	}
}
