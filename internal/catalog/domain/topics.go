package domain

import "github.com/wyfcoding/pkg/eventsourcing"

// TopicFor 事件类型到 Kafka 主题的静态映射。
// 采用显式映射而非运行时类型名匹配，未登记的事件返回空串由调用方丢弃。
func TopicFor(event eventsourcing.DomainEvent) string {
	switch event.(type) {
	case *ProductCreatedEvent:
		return TopicProductCreated
	case *ProductDetailsUpdatedEvent:
		return TopicProductDetailsUpdated
	case *ProductPriceChangedEvent:
		return TopicProductPriceChanged
	case *ProductStockChangedEvent:
		return TopicProductStockChanged
	case *ProductStockLowEvent:
		return TopicProductStockLow
	case *ProductReviewAddedEvent:
		return TopicProductReviewAdded
	case *ProductReviewApprovedEvent:
		return TopicProductReviewApproved
	case *ProductFeaturedChangedEvent:
		return TopicProductFeaturedChanged
	case *ProductDiscontinuedEvent:
		return TopicProductDiscontinued
	default:
		return ""
	}
}
