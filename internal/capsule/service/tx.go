package service

import (
	"context"
	"time"

	id "timecapsule/pkg/domain"
	dErrors "timecapsule/pkg/domain-errors"
)

// StoreTx runs fn under a transactional boundary. SQL backends open a real
// transaction and carry it in the context passed to fn.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// numOwnerShards spreads owners across independent mutexes so that only
// operations on owners that hash to the same shard contend.
const numOwnerShards = 128

// defaultTxTimeout is the maximum duration for a capsule transaction.
const defaultTxTimeout = 5 * time.Second

// ownerTx serializes mutations per owner partition. It waits for the shard
// without holding the goroutine past the context deadline.
type ownerTx struct {
	shards  [numOwnerShards]chan struct{}
	inner   StoreTx
	timeout time.Duration
}

func newOwnerTx(inner StoreTx, timeout time.Duration) *ownerTx {
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	t := &ownerTx{inner: inner, timeout: timeout}
	for i := range t.shards {
		t.shards[i] = make(chan struct{}, 1)
	}
	return t
}

func (t *ownerTx) RunInTx(ctx context.Context, owner id.IdentityKey, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	shard := t.shards[shardFor(owner)]
	select {
	case shard <- struct{}{}:
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "transaction aborted: timed out waiting for owner lock")
	}
	defer func() { <-shard }()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if t.inner == nil {
		return fn(ctx)
	}
	return t.inner.RunInTx(ctx, fn)
}

// shardFor hashes the owner's bytes with FNV-1a.
func shardFor(owner id.IdentityKey) int {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for _, b := range owner {
		h ^= uint32(b)
		h *= fnvPrime
	}
	return int(h % numOwnerShards)
}
