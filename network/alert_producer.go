package network

import (
	"fmt"

	"github.com/nsqio/go-nsq"
)

// Publisher publishes messages to an NSQ topic.
type Publisher interface {
	Publish(topic string, body []byte) error
	Stop()
}

// AlertProducer publishes alert messages to nsqd over TCP. The mailer
// that delivers alerts to people subscribes to the alert topic.
type AlertProducer struct {
	producer *nsq.Producer
}

// NewAlertProducer returns a producer for the nsqd instance at
// tcpAddress, which usually ends with :4150. The producer connects
// lazily on first publish.
func NewAlertProducer(tcpAddress string) (*AlertProducer, error) {
	config := nsq.NewConfig()
	producer, err := nsq.NewProducer(tcpAddress, config)
	if err != nil {
		return nil, fmt.Errorf("Cannot create NSQ producer for %s: %w", tcpAddress, err)
	}
	producer.SetLogger(nil, nsq.LogLevelError)
	return &AlertProducer{producer: producer}, nil
}

func (p *AlertProducer) Publish(topic string, body []byte) error {
	if err := p.producer.Publish(topic, body); err != nil {
		return fmt.Errorf("Error publishing to %s: %w", topic, err)
	}
	return nil
}

func (p *AlertProducer) Stop() {
	p.producer.Stop()
}
