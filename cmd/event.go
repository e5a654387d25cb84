package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/frahmantamala/support-desk/internal/broker"
	"github.com/frahmantamala/support-desk/internal/core/events"
	"github.com/frahmantamala/support-desk/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish test events through the in-process bus and, when enabled, the broker`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a test activity event",
	Long:  `Publish an activity.recorded event for testing the bus, the broker and the activity worker`,
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent()
	},
}

var (
	eventAction  string
	eventDetails string
)

func publishTestEvent() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)

	eventBus.Subscribe(events.EventTypeActivityRecorded, func(ctx context.Context, event events.Event) error {
		lg.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	var pub *broker.Publisher
	if config.Broker.Enabled {
		pub = broker.NewPublisher(broker.Dialer(config.Broker.URL), config.Broker.ActivityQueue, lg)
		defer pub.Close()
		eventBus.Subscribe(events.EventTypeActivityRecorded, pub.Forward)
	}

	testEvent := events.NewActivityRecordedEvent(0, nil, eventAction, eventDetails, "127.0.0.1", "cli-command")

	lg.Info("publishing test event", "event_type", testEvent.Type, "event_id", testEvent.ID)

	if err := eventBus.Publish(context.Background(), testEvent); err != nil {
		lg.Error("failed to publish event", "error", err)
		return
	}

	eventBus.Wait()
	lg.Info("test event published successfully", "forwarded_to_broker", pub != nil)
}

func init() {
	publishEventCmd.Flags().StringVar(&eventAction, "action", "cli_test", "Activity action name")
	publishEventCmd.Flags().StringVar(&eventDetails, "details", "test message", "Activity details")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
