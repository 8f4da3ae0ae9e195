// Package reorder holds the ephemeral "active move" selection used to reposition entries by hand.
package reorder

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotSelecting = errors.New("no entry selected for moving")

// State is either Idle or Selecting.
type State interface {
	isState()
}

type Idle struct{}

// Selecting marks the entry at Index as the pending subject of a move.
type Selecting struct {
	Index int
}

func (Idle) isState()      {}
func (Selecting) isState() {}

// Repositioner is the store primitive a commit performs.
type Repositioner interface {
	Reposition(ctx context.Context, from, to int) error
}

// Controller is a two-state machine: Idle and Selecting(index). At most one move is active.
type Controller struct {
	store Repositioner
	state State
}

func New(store Repositioner) *Controller {
	return &Controller{store: store, state: Idle{}}
}

func (c *Controller) State() State { return c.state }

// Active returns the selected index when a move is pending.
func (c *Controller) Active() (int, bool) {
	if s, ok := c.state.(Selecting); ok {
		return s.Index, true
	}
	return 0, false
}

// Select toggles the selection: selecting the active index clears it, any other index
// replaces it.
func (c *Controller) Select(i int) State {
	if cur, ok := c.state.(Selecting); ok && cur.Index == i {
		c.state = Idle{}
		return c.state
	}
	c.state = Selecting{Index: i}
	return c.state
}

// Commit moves the selected entry to target (an insertion index measured before removal)
// and returns to Idle. The selection is cleared even when the store rejects the move.
func (c *Controller) Commit(ctx context.Context, target int) error {
	cur, ok := c.state.(Selecting)
	if !ok {
		return ErrNotSelecting
	}
	c.state = Idle{}
	if err := c.store.Reposition(ctx, cur.Index, target); err != nil {
		return fmt.Errorf("move %d -> %d: %w", cur.Index, target, err)
	}
	return nil
}

// Cancel drops any pending selection without mutating anything.
func (c *Controller) Cancel() {
	c.state = Idle{}
}
