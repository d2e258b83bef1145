package domain

import "context"

// ServicePort is implemented by the conversations service
type ServicePort interface {
	Save(ctx context.Context, id string, in SaveInput) (SaveOutput, error)
	Load(ctx context.Context, id string) (History, error)
}
