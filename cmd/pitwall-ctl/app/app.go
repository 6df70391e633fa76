package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

const commandDesc = `pitwall-ctl inspects a running pitwall overlay server through its
JSON APIs.`

// NewRootCommand builds the pitwall-ctl command tree.
func NewRootCommand() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:           "pitwall-ctl",
		Short:         "Inspect a running pitwall overlay server",
		Long:          commandDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&server, "server", "s", "http://127.0.0.1:8080", "Base URL of the overlay server.")

	cmd.AddCommand(
		newStatusCommand(&server),
		newConfigCommand(&server),
		newTelemetryCommand(&server),
	)

	return cmd
}

type cameraStatus struct {
	Running      bool   `json:"running"`
	Restarts     int    `json:"restarts"`
	LastError    string `json:"last_error"`
	LastExitCode *int   `json:"last_exit_code"`
}

type overlayStatus struct {
	Camera      cameraStatus `json:"camera"`
	Source      string       `json:"source"`
	FPS         int          `json:"fps"`
	Resolution  string       `json:"resolution"`
	TelemetryHz int          `json:"telemetry_hz"`
}

type overlayConfig struct {
	CameraURL    string `json:"camera_url"`
	TelemetryURL string `json:"telemetry_url"`
	Source       string `json:"source"`
	TargetFPS    int    `json:"target_fps"`
}

type telemetrySnapshot struct {
	SpeedMPH float64 `json:"speed_mph"`
	RPM      int     `json:"rpm"`
	Gear     string  `json:"gear"`
	Throttle float64 `json:"throttle"`
	Brake    float64 `json:"brake"`
	Lap      struct {
		Number          int     `json:"number"`
		CurrentTimeS    float64 `json:"current_time_s"`
		LastTimeS       float64 `json:"last_time_s"`
		BestTimeS       float64 `json:"best_time_s"`
		PredictedDeltaS float64 `json:"predicted_delta_s"`
	} `json:"lap"`
	Meta struct {
		Source    string `json:"source"`
		UpdatedAt string `json:"updated_at"`
	} `json:"meta"`
}

func newStatusCommand(server *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the capture pipeline and stream status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var st overlayStatus
			if err := fetchJSON(*server, "/api/status", &st); err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("RUNNING", fmt.Sprintf("%t", st.Camera.Running))
			table.AddRow("RESTARTS", fmt.Sprintf("%d", st.Camera.Restarts))
			table.AddRow("LAST ERROR", st.Camera.LastError)
			table.AddRow("EXIT CODE", formatExitCode(st.Camera.LastExitCode))
			table.AddRow("SOURCE", st.Source)
			table.AddRow("RESOLUTION", st.Resolution)
			table.AddRow("FPS", fmt.Sprintf("%d", st.FPS))
			table.AddRow("TELEMETRY HZ", fmt.Sprintf("%d", st.TelemetryHz))

			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newConfigCommand(server *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the stream endpoints the HUD is using",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg overlayConfig
			if err := fetchJSON(*server, "/api/config", &cfg); err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("CAMERA URL", cfg.CameraURL)
			table.AddRow("TELEMETRY URL", cfg.TelemetryURL)
			table.AddRow("SOURCE", cfg.Source)
			table.AddRow("TARGET FPS", fmt.Sprintf("%d", cfg.TargetFPS))

			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newTelemetryCommand(server *string) *cobra.Command {
	return &cobra.Command{
		Use:   "telemetry",
		Short: "Show the latest telemetry snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var snap telemetrySnapshot
			if err := fetchJSON(*server, "/api/telemetry", &snap); err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("LAP", fmt.Sprintf("%d", snap.Lap.Number))
			table.AddRow("SPEED", fmt.Sprintf("%.1f mph", snap.SpeedMPH))
			table.AddRow("RPM", fmt.Sprintf("%d", snap.RPM))
			table.AddRow("GEAR", snap.Gear)
			table.AddRow("THROTTLE", fmt.Sprintf("%.0f%%", snap.Throttle*100))
			table.AddRow("BRAKE", fmt.Sprintf("%.0f%%", snap.Brake*100))
			table.AddRow("CURRENT LAP", fmt.Sprintf("%.3fs", snap.Lap.CurrentTimeS))
			table.AddRow("LAST LAP", fmt.Sprintf("%.3fs", snap.Lap.LastTimeS))
			table.AddRow("BEST LAP", fmt.Sprintf("%.3fs", snap.Lap.BestTimeS))
			table.AddRow("PREDICTED", fmt.Sprintf("%+.2fs", snap.Lap.PredictedDeltaS))
			table.AddRow("UPDATED", snap.Meta.UpdatedAt)

			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func fetchJSON(server, path string, v interface{}) error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(strings.TrimSuffix(server, "/") + path)
	if err != nil {
		return fmt.Errorf("failed to reach overlay server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("overlay server returned %s for %s", resp.Status, path)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func formatExitCode(code *int) string {
	if code == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *code)
}
