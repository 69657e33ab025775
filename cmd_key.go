package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tomasz-mizak/chatguard/internal/access"

	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the access key file",
}

var keyPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the resolved access key file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := access.ResolvePath()
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		source := "default"
		if os.Getenv(access.PathEnv) != "" {
			source = access.PathEnv
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Path:    %s\n", abs)
		fmt.Fprintf(cmd.OutOrStdout(), "Source:  %s\n", source)
		return nil
	},
}

var keyInitCmd = &cobra.Command{
	Use:   "init [key]",
	Short: "Create the access key file",
	Long:  "Create the access key file with the given key, or a random one. Refuses to overwrite an existing file.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		if key == "" {
			var err error
			if key, err = generateKey(); err != nil {
				return fmt.Errorf("failed to generate key: %w", err)
			}
		}

		path := access.ResolvePath()
		if err := writeKeyFile(path, key); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Key: %s\n", key)
		return nil
	},
}

var keyCheckCmd = &cobra.Command{
	Use:   "check <key>",
	Short: "Check a key against the access key file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := access.Validate(args[0]); err != nil {
			return fmt.Errorf("%s (HTTP %d)", err, access.KindOf(err).HTTPStatus())
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Access key is valid.")
		return nil
	},
}

func generateKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func writeKeyFile(path, key string) error {
	data, err := json.MarshalIndent(map[string]string{"access_key": key}, "", "  ")
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s already exists; remove it first to replace the key", path)
		}
		return fmt.Errorf("cannot create key file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write key file: %w", err)
	}
	return nil
}

func init() {
	keyCmd.AddCommand(keyPathCmd)
	keyCmd.AddCommand(keyInitCmd)
	keyCmd.AddCommand(keyCheckCmd)
	rootCmd.AddCommand(keyCmd)
}
