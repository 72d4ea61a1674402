// Package driver decides when cart pushes and pulls fire. Policy only: the
// merge and transport logic live in the client package.
package driver

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"storefront/internal/cartsync/client"
	"storefront/internal/cartsync/store"
	"storefront/internal/domain"
)

// DefaultInterval matches the periodic dirty check of the web client.
const DefaultInterval = 2 * time.Minute

// flushTimeout bounds the best-effort flush on shutdown.
const flushTimeout = 2 * time.Second

// SyncClient is the slice of client.Client the driver needs.
type SyncClient interface {
	Push(ctx context.Context, items []domain.CartItem) error
	Pull(ctx context.Context) ([]domain.CartItem, error)
}

// Driver periodically pushes a dirty cart while a session is active, merges
// on login, and flushes best-effort on shutdown.
type Driver struct {
	store    *store.Store
	client   SyncClient
	interval time.Duration
	logger   *log.Logger

	mu       sync.Mutex
	authed   bool
	inFlight bool
}

func New(st *store.Store, cl SyncClient, interval time.Duration, logger *log.Logger) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Driver{store: st, client: cl, interval: interval, logger: logger}
}

// SetAuthenticated toggles whether periodic syncs may fire.
func (d *Driver) SetAuthenticated(v bool) {
	d.mu.Lock()
	d.authed = v
	d.mu.Unlock()
}

// Run ticks until ctx is cancelled, then performs one best-effort flush.
// The flush may be lost; callers must tolerate either outcome.
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.Flush()
			return
		case <-ticker.C:
			d.syncIfDirty(ctx)
		}
	}
}

// OnLogin pulls the remote cart, merges it with the local snapshot, replaces
// the local store with the result and pushes it back. Guest additions are
// additive to whatever was saved server-side.
func (d *Driver) OnLogin(ctx context.Context) error {
	remote, err := d.client.Pull(ctx)
	if err != nil {
		// Empty-and-failed is not authoritative; keep the local cart as is.
		return err
	}
	merged := client.Merge(d.store.Items(), remote)
	d.store.ReplaceAll(merged)
	if err := d.client.Push(ctx, merged); err != nil {
		return err
	}
	d.store.ClearDirty()
	d.SetAuthenticated(true)
	return nil
}

// Flush makes one short-deadline push attempt if there is anything to flush.
// Errors are logged, not returned: the caller is tearing down.
func (d *Driver) Flush() {
	if !d.shouldSync() {
		return
	}
	if !d.beginPush() {
		return
	}
	defer d.endPush()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := d.client.Push(ctx, d.store.Items()); err != nil {
		d.logger.Printf("cart driver: flush dropped: %v", err)
		return
	}
	d.store.ClearDirty()
}

func (d *Driver) syncIfDirty(ctx context.Context) {
	if !d.shouldSync() {
		return
	}
	if !d.beginPush() {
		// A push is already in flight; skip this tick rather than queue.
		return
	}
	defer d.endPush()

	if err := d.client.Push(ctx, d.store.Items()); err != nil {
		d.logger.Printf("cart driver: push failed, retrying next tick: %v", err)
		return
	}
	d.store.ClearDirty()
}

func (d *Driver) shouldSync() bool {
	d.mu.Lock()
	authed := d.authed
	d.mu.Unlock()
	return authed && d.store.Dirty()
}

func (d *Driver) beginPush() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inFlight {
		return false
	}
	d.inFlight = true
	return true
}

func (d *Driver) endPush() {
	d.mu.Lock()
	d.inFlight = false
	d.mu.Unlock()
}
