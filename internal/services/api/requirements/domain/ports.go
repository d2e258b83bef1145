package domain

import "context"

// ServicePort is implemented by the requirements service
type ServicePort interface {
	Submit(ctx context.Context, content, target string) (Ack, error)
	MarkProcessed(ctx context.Context, entryID string) (Ack, error)
	Status(ctx context.Context) (Status, error)
}
