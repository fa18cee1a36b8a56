package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/segmentio/kafka-go"

	"github.com/nettelescope/reportcore/internal/resultrow"
)

// KafkaConfig configures the Kafka sink.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

const (
	defaultBatchSize    = 100
	defaultBatchTimeout = 100 * time.Millisecond
	defaultMaxAttempts  = 3
)

// Kafka emits each ResultRow as one JSON message, keyed by (timestamp,
// class, value) for stable partitioning.
type Kafka struct {
	writer *kafka.Writer
}

// NewKafka decodes raw (from config.SinkConfig.Config) into a KafkaConfig
// and opens a writer.
func NewKafka(raw map[string]any) (*Kafka, error) {
	cfg := KafkaConfig{
		BatchSize:    defaultBatchSize,
		BatchTimeout: defaultBatchTimeout,
		MaxAttempts:  defaultMaxAttempts,
	}
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("sink: decode kafka config: %w", err)
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("sink: kafka sink requires brokers")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("sink: kafka sink requires topic")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		MaxAttempts:  cfg.MaxAttempts,
		Async:        false,
	}
	return &Kafka{writer: writer}, nil
}

func (k *Kafka) Emit(rows []resultrow.ResultRow) error {
	msgs := make([]kafka.Message, 0, len(rows))
	for _, r := range rows {
		value, err := json.Marshal(rowJSON(r))
		if err != nil {
			return fmt.Errorf("sink: marshal result row: %w", err)
		}
		key := fmt.Sprintf("%d:%s:%d", r.Timestamp, r.Class.String(), r.Value)
		msgs = append(msgs, kafka.Message{Key: []byte(key), Value: value})
	}
	if len(msgs) == 0 {
		return nil
	}
	return k.writer.WriteMessages(context.Background(), msgs...)
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

func rowJSON(r resultrow.ResultRow) map[string]any {
	out := map[string]any{
		"timestamp":       r.Timestamp,
		"label":           r.Label,
		"class":           r.Class.String(),
		"value":           strconv.FormatUint(uint64(r.Value), 10),
		"bytes":           r.Bytes,
		"packets":         r.Packets,
		"unique_src_ips":  r.UniqueSrcIPs,
		"unique_dst_ips":  r.UniqueDstIPs,
		"unique_src_asns": r.UniqueSrcASNs,
		"seq_loss":        r.SeqLoss,
	}
	if len(r.AssociatedTags) > 0 {
		assoc := make([]string, len(r.AssociatedTags))
		for i, a := range r.AssociatedTags {
			assoc[i] = a.Class.String() + "=" + strconv.FormatUint(uint64(a.Value), 10)
		}
		out["associated_tags"] = assoc
	}
	return out
}
