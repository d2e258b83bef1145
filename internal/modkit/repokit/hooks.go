package repokit

import "context"

// BeginHook runs first inside every transaction, on the transaction's Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks returns inner with hooks run ahead of each Tx body
// plain statements outside Tx pass straight through
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	return hookedTx{TxRunner: inner, hooks: hooks}
}

// AdvisoryLock serializes transactions sharing key with pg_advisory_xact_lock
func AdvisoryLock(key int64) BeginHook {
	return func(ctx context.Context, q Queryer) error {
		_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, key)
		return err
	}
}

type hookedTx struct {
	TxRunner
	hooks []BeginHook
}

func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, run := range h.hooks {
			if err := run(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}
