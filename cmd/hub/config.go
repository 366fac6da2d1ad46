package main

import (
	"fmt"

	"hub-go/internal/app"
	"hub-go/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := app.DefaultPaths()
		if err != nil {
			return fmt.Errorf("resolving paths: %w", err)
		}

		cfg := config.NewConfig(paths.Data)
		cfg.Storage.Type, _ = cmd.Flags().GetString("storage")
		cfg.Storage.Encrypted, _ = cmd.Flags().GetBool("encrypted")
		cfg.Codec, _ = cmd.Flags().GetString("codec")
		cfg.IDFormat, _ = cmd.Flags().GetString("ids")
		if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
			cfg.Storage.Dir = dir
		}

		if err := config.Init(paths.Config, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", paths.Config)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Printf("Storage:  %s (%s)\n", cfg.Storage.Type, cfg.Storage.Dir)
		if cfg.Storage.Encrypted {
			fmt.Println("Run 'hub keys init' to create the encryption keys.")
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Codec:     %s\n", cfg.Codec)
		fmt.Printf("IDs:       %s\n", cfg.IDFormat)
		fmt.Printf("Storage:   %s\n", cfg.Storage.Type)
		switch cfg.Storage.Type {
		case "filesystem", "sqlite":
			fmt.Printf("  Dir:     %s\n", cfg.Storage.Dir)
		case "s3":
			fmt.Printf("  Bucket:  %s\n", cfg.Storage.S3Bucket)
			fmt.Printf("  Prefix:  %s\n", cfg.Storage.S3Prefix)
			fmt.Printf("  Region:  %s\n", cfg.Storage.S3Region)
		case "firestore":
			fmt.Printf("  Project: %s\n", cfg.Storage.FirestoreProject)
			fmt.Printf("  Collection: %s\n", cfg.Storage.FirestoreCollection)
		}
		fmt.Printf("Encrypted: %t\n", cfg.Storage.Encrypted)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("storage", "filesystem", "Storage backend: memory, filesystem, sqlite, s3 or firestore")
	configInitCmd.Flags().String("dir", "", "Data directory for filesystem or sqlite storage")
	configInitCmd.Flags().Bool("encrypted", false, "Encrypt stored values with age")
	configInitCmd.Flags().String("codec", "json", "Blob encoding: json, yaml or msgpack")
	configInitCmd.Flags().String("ids", "timestamp", "Record id format: timestamp or uuid")
}
