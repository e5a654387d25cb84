package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/support-desk/internal/broker"
	"github.com/frahmantamala/support-desk/internal/core/events"
	"github.com/frahmantamala/support-desk/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background consumers",
	Long:  `Start consumers that process messages the HTTP server hands off to the broker.`,
}

var activityWorkerCmd = &cobra.Command{
	Use:   "activity",
	Short: "Consume activity events from the broker",
	Long:  `Read activity.recorded events from the activity queue and log them for downstream auditing.`,
	Run: func(cmd *cobra.Command, args []string) {
		startActivityWorker()
	},
}

var workerQueue string

func startActivityWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	if !config.Broker.Enabled {
		lg.Error("broker is disabled; set broker.enabled to run the activity worker")
		os.Exit(1)
	}

	queue := getStringFlag(workerQueue, config.Broker.ActivityQueue)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("activity worker is running. Press Ctrl+C to stop.", "queue", queue)

	err = broker.Consume(ctx, config.Broker.URL, queue, func(ctx context.Context, body []byte) error {
		var evt events.ActivityRecordedEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			return fmt.Errorf("decode activity event: %w", err)
		}
		if evt.Type != events.EventTypeActivityRecorded {
			return fmt.Errorf("unexpected event type %q", evt.Type)
		}

		attrs := []any{
			"event_id", evt.ID,
			"log_id", evt.LogID,
			"action", evt.Action,
			"details", evt.Details,
			"ip_address", evt.IPAddress,
		}
		if evt.UserID != nil {
			attrs = append(attrs, "user_id", *evt.UserID)
		}
		lg.Info("activity received", attrs...)
		return nil
	}, lg)

	if err != nil && ctx.Err() == nil {
		lg.Error("activity worker stopped", "error", err)
		os.Exit(1)
	}
	lg.Info("activity worker shutdown complete")
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func init() {
	activityWorkerCmd.Flags().StringVar(&workerQueue, "queue", "", "Queue name (overrides config)")

	workerCmd.AddCommand(activityWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
