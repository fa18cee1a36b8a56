package log

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// KafkaAppenderOpt configures the Kafka log appender.
type KafkaAppenderOpt struct {
	Brokers   []string `mapstructure:"brokers"`
	Topic     string   `mapstructure:"topic"`
	Partition int      `mapstructure:"partition,omitempty"`
}

// kafkaWriter adapts a kafka.Writer to io.Writer, one message per Write
// call — acceptable for log volume, unlike the batched ResultRow sink.
type kafkaWriter struct {
	w *kafka.Writer
}

func (k *kafkaWriter) Write(p []byte) (int, error) {
	msg := make([]byte, len(p))
	copy(msg, p)
	err := k.w.WriteMessages(context.Background(), kafka.Message{Value: msg})
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// AddKafkaAppender fans log output to a Kafka topic.
func (m *MultiWriter) AddKafkaAppender(options KafkaAppenderOpt) *MultiWriter {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(options.Brokers...),
		Topic:        options.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
	m.writers = append(m.writers, &kafkaWriter{w: writer})
	return m
}
