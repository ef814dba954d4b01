package usecase

import "context"

// EventPublisher принимает события склада. Publish не должен блокировать операцию склада.
type EventPublisher interface {
	Publish(event *LedgerEvent) error
}

// MessageProducer отправляет событие во внешний брокер.
type MessageProducer interface {
	WriteMessage(ctx context.Context, req *WriteMessageReq) error
}

// NopPublisher отбрасывает события; используется, когда публикация выключена.
type NopPublisher struct{}

func (NopPublisher) Publish(*LedgerEvent) error { return nil }
