// Package messaging 提供基于 Outbox 模式的事件发布实现。
// 事件先随业务事务写入 outbox 表，由后台 Processor 轮询投递到 Kafka，
// 保证聚合落库与事件发布的原子性。各限界上下文通过各自的 EventPublisher
// 接口使用同一实现。
package messaging

import (
	"context"
	"fmt"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"gorm.io/gorm"
)

// OutboxPublisher 事务性事件发布器。
type OutboxPublisher struct {
	manager *outbox.Manager
}

// NewOutboxPublisher 创建 Outbox 事件发布器。
func NewOutboxPublisher(manager *outbox.Manager) *OutboxPublisher {
	return &OutboxPublisher{manager: manager}
}

// Publish 发布事件。context 携带事务时加入该事务，否则使用独立连接。
func (p *OutboxPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return p.manager.PublishInTx(ctx, tx, topic, key, event)
	}
	return p.manager.PublishInTx(ctx, p.manager.DB(), topic, key, event)
}

// PublishInTx 在给定事务中发布事件。
func (p *OutboxPublisher) PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error {
	gormTx, ok := tx.(*gorm.DB)
	if !ok {
		return fmt.Errorf("tx must be *gorm.DB, got %T", tx)
	}
	return p.manager.PublishInTx(ctx, gormTx, topic, key, event)
}
