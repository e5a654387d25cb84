package events_test

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/frahmantamala/support-desk/internal/core/events"
	"github.com/frahmantamala/support-desk/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(logger.Discard())
	})

	It("delivers activity events to every subscriber", func() {
		var calls int32
		handler := func(ctx context.Context, e events.Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		}
		bus.Subscribe(events.EventTypeActivityRecorded, handler)
		bus.Subscribe(events.EventTypeActivityRecorded, handler)
		Expect(bus.Subscribers(events.EventTypeActivityRecorded)).To(Equal(2))

		uid := int64(7)
		ev := events.NewActivityRecordedEvent(1, &uid, "login", "User logged in", "10.0.0.1", "curl")
		Expect(bus.Publish(context.Background(), ev)).To(Succeed())
		bus.Wait()

		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(2)))
		Expect(ev.Payload()).To(HaveKeyWithValue("user_id", int64(7)))
	})

	It("keeps running handlers after the publisher context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		seen := make(chan error, 1)
		bus.Subscribe(events.EventTypeActivityRecorded, func(ctx context.Context, e events.Event) error {
			seen <- ctx.Err()
			return nil
		})

		cancel()
		Expect(bus.Publish(ctx, events.NewActivityRecordedEvent(1, nil, "logout", "", "", ""))).To(Succeed())
		Eventually(seen).Should(Receive(BeNil()))
	})

	It("surfaces handler errors from PublishSync", func() {
		bus.Subscribe(events.EventTypeActivityRecorded, func(ctx context.Context, e events.Event) error {
			return errors.New("boom")
		})

		err := bus.PublishSync(context.Background(), events.NewActivityRecordedEvent(1, nil, "register", "", "", ""))
		Expect(err).To(MatchError(ContainSubstring("boom")))
	})

	It("is a no-op without subscribers", func() {
		Expect(bus.Publish(context.Background(), events.NewActivityRecordedEvent(1, nil, "login", "", "", ""))).To(Succeed())
	})
})
