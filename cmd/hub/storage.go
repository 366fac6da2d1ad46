package main

import (
	"errors"
	"fmt"

	"hub-go/internal/encryption"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the age key pair used by encrypted storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			return err
		}

		pass, err := newPassphrase()
		if err != nil {
			return err
		}
		if err := enc.Setup(pass); err != nil {
			if errors.Is(err, encryption.ErrKeysExist) {
				return fmt.Errorf("%w; remove them first only if nothing is encrypted with them", err)
			}
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Printf("Public key:  %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Printf("Private key: %s (passphrase protected)\n", cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Inspect the key-value storage behind the hub",
}

var storageKeysCmd = &cobra.Command{
	Use:   "keys [PATTERN]",
	Short: "List stored keys, optionally filtered by a glob such as 'shopping_*'",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "StorageKeys")
		if err != nil {
			return err
		}
		defer s.Close()

		pattern := ""
		if len(args) > 0 {
			pattern = args[0]
		}
		keys, err := s.Keys(s.ctx, pattern)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Println("No keys stored.")
			return nil
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil
	},
}

var storageRmCmd = &cobra.Command{
	Use:   "rm KEY",
	Short: "Delete a whole stored collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "StorageRemove")
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.RemoveKey(s.ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

var storageWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print keys as other processes change them (filesystem storage)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "StorageWatch")
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.Watch(cmd.Context())
		if err != nil {
			return err
		}
		for ev := range events {
			fmt.Printf("%s\t%s\n", ev.Op, ev.Key)
		}
		return nil
	},
}

var storageExportCmd = &cobra.Command{
	Use:   "export PATH",
	Short: "Write a consistent copy of the sqlite database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, "StorageExport")
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Export(args[0]); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", args[0])
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysInitCmd)

	storageCmd.AddCommand(storageKeysCmd)
	storageCmd.AddCommand(storageRmCmd)
	storageCmd.AddCommand(storageWatchCmd)
	storageCmd.AddCommand(storageExportCmd)
}
