package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"ticktask/internal/backup"
	"ticktask/internal/config"
	"ticktask/internal/storage"
	"ticktask/internal/ui"
)

func main() {
	exportPath := flag.String("export", "", "write a JSON backup to the given file and exit")
	importPath := flag.String("import", "", "replace all data from a JSON backup and exit")
	configPath := flag.String("config", config.ResolveConfigPath(), "path to the config file")
	flag.Parse()

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *exportPath != "":
		if err := runExport(store, *exportPath); err != nil {
			fmt.Printf("export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("exported to %s\n", *exportPath)
	case *importPath != "":
		if err := runImport(store, *importPath); err != nil {
			fmt.Printf("import failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("imported from %s\n", *importPath)
	default:
		if err := ui.Run(store, cfg); err != nil {
			fmt.Printf("error running program: %v\n", err)
			os.Exit(1)
		}
	}
}

func runExport(store *storage.Store, path string) error {
	payload, err := store.Export(time.Now())
	if err != nil {
		return err
	}
	data, err := payload.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func runImport(store *storage.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	payload, err := backup.Decode(data)
	if err != nil {
		return err
	}
	return store.Restore(payload)
}
