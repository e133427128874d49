package kafka

import (
	"Agora/internal/api/config"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// Producer 投票事件生产者。事件在投票事务提交之后异步发出，
// 永远不参与原子单元，丢失事件不影响分数与流水的一致性
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	saramaCfg := newSaramaConfig(cfg)
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.RequiredAcks = sarama.WaitForLocal

	p, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &Producer{
		producer: p,
		topic:    cfg.VoteTopic,
	}, nil
}

// PublishVoteEvent 以实体 ID 作为分区键，保证同一实体的事件有序
func (p *Producer) PublishVoteEvent(ctx context.Context, evt *VoteEvent) {
	if p == nil {
		return
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		log.ErrorContext(ctx, "marshal vote event error", "err", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(string(evt.EntityKind) + ":" + strconv.FormatUint(evt.EntityID, 10)),
		Value: sarama.ByteEncoder(payload),
	}

	if _, _, err = p.producer.SendMessage(msg); err != nil {
		log.ErrorContext(ctx, "publish vote event error", "err", err)
	}
}

func (p *Producer) Close() {
	if p == nil {
		return
	}
	if err := p.producer.Close(); err != nil {
		log.Error("close kafka producer error", "err", err)
	}
}
