package broker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/frahmantamala/support-desk/internal/core/events"
	"github.com/frahmantamala/support-desk/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	publishErr error
	closed     bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

var _ = Describe("Publisher", func() {
	var (
		dials int
		ch    *fakeChannel
		pub   *Publisher
	)

	BeforeEach(func() {
		dials = 0
		ch = &fakeChannel{}
		pub = NewPublisher(func() (Channel, func() error, error) {
			dials++
			return ch, nil, nil
		}, "support.activity", logger.Discard())
	})

	It("declares the queue once and publishes persistent json", func() {
		uid := int64(5)
		ev := events.NewActivityRecordedEvent(9, &uid, "login", "User logged in", "10.0.0.1", "curl")

		Expect(pub.Forward(context.Background(), ev)).To(Succeed())
		Expect(pub.Forward(context.Background(), ev)).To(Succeed())

		Expect(dials).To(Equal(1))
		Expect(ch.declared).To(Equal([]string{"support.activity"}))
		Expect(ch.keys).To(HaveLen(2))
		Expect(ch.keys[0]).To(Equal("support.activity"))

		msg := ch.published[0]
		Expect(msg.DeliveryMode).To(Equal(amqp.Persistent))
		Expect(msg.ContentType).To(Equal("application/json"))
		Expect(msg.Timestamp).To(BeTemporally("~", time.Now(), time.Minute))

		var body map[string]interface{}
		Expect(json.Unmarshal(msg.Body, &body)).To(Succeed())
		Expect(body["action"]).To(Equal("login"))
		Expect(body["log_id"]).To(BeEquivalentTo(9))
	})

	It("redials after a failed publish", func() {
		ch.publishErr = errors.New("channel closed")
		err := pub.Forward(context.Background(), events.NewActivityRecordedEvent(1, nil, "logout", "", "", ""))
		Expect(err).To(MatchError(ContainSubstring("channel closed")))
		Expect(ch.closed).To(BeTrue())

		ch.publishErr = nil
		Expect(pub.Forward(context.Background(), events.NewActivityRecordedEvent(2, nil, "logout", "", "", ""))).To(Succeed())
		Expect(dials).To(Equal(2))
	})

	It("reports dial errors", func() {
		failing := NewPublisher(func() (Channel, func() error, error) {
			return nil, nil, errors.New("connection refused")
		}, "support.activity", logger.Discard())

		Expect(failing.PublishJSON(context.Background(), map[string]string{"a": "b"})).To(MatchError(ContainSubstring("connection refused")))
	})
})

var _ = Describe("backoff", func() {
	It("doubles up to the ceiling", func() {
		Expect(nextBackoff(time.Second)).To(Equal(2 * time.Second))
		Expect(nextBackoff(20 * time.Second)).To(Equal(maxBackoff))
	})

	It("stops sleeping when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(sleep(ctx, time.Hour)).To(BeFalse())
	})
})
