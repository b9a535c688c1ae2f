package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "retirecast-cli",
		Short: "Retirecast CLI tool",
		Long:  `A command line interface for interacting with the Retirecast API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Retirecast API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 120*time.Second, "Request timeout")

	// Scenario commands
	scenarioCmd := &cobra.Command{
		Use:   "scenario",
		Short: "Scenario operations",
	}

	scenarioCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/scenarios")
		},
	})

	scenarioCmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a scenario",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/scenarios/" + args[0])
		},
	})

	scenarioCmd.AddCommand(&cobra.Command{
		Use:   "create <plan.json>",
		Short: "Create a scenario from a plan file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			createScenario(args[0])
		},
	})

	// Run commands
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Simulation run operations",
	}

	var runTitle string
	startCmd := &cobra.Command{
		Use:   "start <scenario-id>",
		Short: "Run a scenario and print the run record",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			startRun(args[0], runTitle)
		},
	}
	startCmd.Flags().StringVar(&runTitle, "title", "", "Title for the run")
	runCmd.AddCommand(startCmd)

	runCmd.AddCommand(&cobra.Command{
		Use:   "get <run-id>",
		Short: "Show a run, including its result",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/runs/" + args[0])
		},
	})

	runCmd.AddCommand(&cobra.Command{
		Use:   "list <scenario-id>",
		Short: "List a scenario's runs",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/scenarios/" + args[0] + "/runs")
		},
	})

	runCmd.AddCommand(&cobra.Command{
		Use:   "retitle <run-id> <title>",
		Short: "Change a run's title",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			retitleRun(args[0], args[1])
		},
	})

	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createScenario(planPath string) {
	raw, err := os.ReadFile(planPath)
	if err != nil {
		fmt.Printf("Error reading plan file: %v\n", err)
		os.Exit(1)
	}
	doRequest(http.MethodPost, "/api/v1/scenarios", raw)
}

func startRun(scenarioID, title string) {
	body, _ := json.Marshal(map[string]string{"title": title})
	doRequest(http.MethodPost, "/api/v1/scenarios/"+scenarioID+"/runs", body)
}

func retitleRun(runID, title string) {
	body, _ := json.Marshal(map[string]string{"title": title})
	doRequest(http.MethodPatch, "/api/v1/runs/"+runID, body)
}

func getJSON(path string) {
	doRequest(http.MethodGet, path, nil)
}

func doRequest(method, path string, body []byte) {
	client := &http.Client{Timeout: timeout}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, respBody, "", "  "); err != nil {
		fmt.Println(string(respBody))
		return
	}
	fmt.Println(pretty.String())
}
