package main

import (
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/tomasz-mizak/chatguard/internal/config"

	"github.com/spf13/cobra"
)

const apiServiceName = "chatguard-api"

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Inspect the REST API service",
}

var apiStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show API service status",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := "unknown"
		if out, err := exec.Command("systemctl", "show", apiServiceName,
			"--property=ActiveState", "--value").Output(); err == nil {
			state = strings.TrimSpace(string(out))
		}

		cfg, err := config.LoadOrEmpty(config.Path())
		if err != nil {
			return err
		}
		port := cfg.Port()

		reachable := "no"
		conn, err := net.DialTimeout("tcp", "127.0.0.1:"+port, 2*time.Second)
		if err == nil {
			conn.Close()
			reachable = "yes"
		}

		health := "n/a"
		if reachable == "yes" {
			health = probeHealth("http://127.0.0.1:" + port + "/healthz")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Service:    %s\n", state)
		fmt.Fprintf(out, "Port:       %s\n", port)
		fmt.Fprintf(out, "Reachable:  %s\n", reachable)
		fmt.Fprintf(out, "Health:     %s\n", health)
		return nil
	},
}

func probeHealth(url string) string {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "error"
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return "ok"
}

func init() {
	apiCmd.AddCommand(apiStatusCmd)
	rootCmd.AddCommand(apiCmd)
}
