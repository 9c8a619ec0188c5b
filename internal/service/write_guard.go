package service

import (
	"fmt"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
)

// WriteGuard reports whether the table store accepts writes.
// *grist.Client satisfies it.
type WriteGuard interface {
	CanWrite() bool
}

// writeGate fails mutating operations up front when the store is read-only.
type writeGate struct {
	guard WriteGuard
}

// SetWriteGuard makes every create, update and delete check guard before
// touching the store
func (g *writeGate) SetWriteGuard(guard WriteGuard) {
	g.guard = guard
}

func (g *writeGate) checkWritable() error {
	if g.guard != nil && !g.guard.CanWrite() {
		return fmt.Errorf("%w: api key is not set", domain.ErrStoreNotConfigured)
	}
	return nil
}
