package repokit

import (
	"context"
	"fmt"
)

type guarder interface {
	Guard(context.Context) error
}

// MustGuard runs the store guard and panics on any error
func MustGuard(ctx context.Context, st guarder) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
