package kafka

import (
	"Agora/internal/model"
	"time"
)

// VoteEvent 投票事务提交后发往下游（通知、Feed）的事件
type VoteEvent struct {
	EntityKind model.EntityKind `json:"entity_kind"`
	EntityID   uint64           `json:"entity_id"`
	VoterID    uint64           `json:"voter_id"`
	AuthorID   uint64           `json:"author_id"`
	Delta      int64            `json:"delta"`
	Score      int64            `json:"score"`
	Reason     string           `json:"reason"`
	OccurredAt time.Time        `json:"occurred_at"`
}
