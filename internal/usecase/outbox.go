package usecase

import "time"

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductCreated     OutboxEventType = "product_created"
	ProductUpdated     OutboxEventType = "product_updated"
	ProductDeleted     OutboxEventType = "product_deleted"
	ProductPublished   OutboxEventType = "product_published"
	ProductUnpublished OutboxEventType = "product_unpublished"
	ImageCreated       OutboxEventType = "image_created"
	ImageDeleted       OutboxEventType = "image_deleted"
)

// OutboxEvent — запись transactional outbox: событие изменения каталога,
// записанное в той же транзакции, что и само изменение.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	EntityID    int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

type WriteRawMessageReq struct {
	EntityID int64
	Payload  []byte
}

func NewWriteRawMessageReq(entityID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		EntityID: entityID,
		Payload:  payload,
	}
}
