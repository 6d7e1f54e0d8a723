package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dukerupert/foodmenu/internal/model"
	ws "github.com/dukerupert/foodmenu/internal/websocket"
)

var (
	// ErrNoEditingTarget is returned by Update when no item is being edited.
	ErrNoEditingTarget = errors.New("no food is being edited")
	// ErrNotFound is returned when an id is not present in the local mirror.
	ErrNotFound = errors.New("food not found")
)

// Remote is the foods resource the controller mirrors.
type Remote interface {
	List(ctx context.Context) ([]model.Food, error)
	Create(ctx context.Context, d model.FoodDraft) (model.Food, error)
	Replace(ctx context.Context, f model.Food) (model.Food, error)
	Delete(ctx context.Context, id int64) error
}

// Broadcaster receives a message after every reconciliation.
type Broadcaster interface {
	Broadcast(msg ws.Message) int
}

// Surfaces reports which dashboard forms are open.
type Surfaces struct {
	CreateOpen bool `json:"create_open"`
	EditOpen   bool `json:"edit_open"`
}

// Controller keeps an in-memory mirror of the remote foods collection.
// Every mutation is sent to the remote first and applied locally only after
// it succeeds. The lock is never held across a remote call, so overlapping
// calls for one id resolve as last reconciliation wins.
type Controller struct {
	remote Remote
	hub    Broadcaster
	logger *slog.Logger

	mu         sync.RWMutex
	items      []model.Food
	editing    *model.Food
	createOpen bool
	editOpen   bool
}

// NewController creates a controller with an empty mirror. hub may be nil.
func NewController(remote Remote, hub Broadcaster, logger *slog.Logger) *Controller {
	return &Controller{
		remote: remote,
		hub:    hub,
		logger: logger,
		items:  []model.Food{},
	}
}

// Load replaces the mirror with the remote collection.
func (c *Controller) Load(ctx context.Context) error {
	foods, err := c.remote.List(ctx)
	if err != nil {
		return err
	}

	items := make([]model.Food, len(foods))
	copy(items, foods)

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()

	c.notify(ws.ListMessage("loaded", foods))
	return nil
}

// Create adds a new available item. Failures are logged and returned; the
// mirror is left untouched.
func (c *Controller) Create(ctx context.Context, d model.FoodDraft) (model.Food, error) {
	created, err := c.remote.Create(ctx, d)
	if err != nil {
		c.logger.Error("create food", "name", d.Name, "error", err)
		return model.Food{}, err
	}

	c.mu.Lock()
	c.items = append(c.items, created)
	c.mu.Unlock()

	c.notify(ws.FoodMessage("created", created))
	return created, nil
}

// SetAvailability sends the full item and then copies only its availability
// onto the local item with the same id.
func (c *Controller) SetAvailability(ctx context.Context, f model.Food) error {
	if _, err := c.remote.Replace(ctx, f); err != nil {
		return err
	}

	c.mu.Lock()
	i := c.indexOf(f.ID)
	var local model.Food
	if i >= 0 {
		c.items[i].Available = f.Available
		local = c.items[i]
	}
	c.mu.Unlock()

	if i >= 0 {
		c.notify(ws.FoodMessage("availability", local))
	}
	return nil
}

// SetEditingTarget records f as the item being edited and flips the edit form.
func (c *Controller) SetEditingTarget(f model.Food) {
	c.mu.Lock()
	defer c.mu.Unlock()
	target := f
	c.editing = &target
	c.editOpen = !c.editOpen
}

// Editing returns the item being edited, if any.
func (c *Controller) Editing() (model.Food, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.editing == nil {
		return model.Food{}, false
	}
	return *c.editing, true
}

// Update applies d over the editing target and replaces the remote and
// local copies with the merged item.
func (c *Controller) Update(ctx context.Context, d model.FoodDraft) (model.Food, error) {
	target, ok := c.Editing()
	if !ok {
		return model.Food{}, ErrNoEditingTarget
	}

	merged := target.Merge(d)
	if _, err := c.remote.Replace(ctx, merged); err != nil {
		return model.Food{}, err
	}

	c.mu.Lock()
	i := c.indexOf(merged.ID)
	if i >= 0 {
		c.items[i] = merged
	}
	c.mu.Unlock()

	if i >= 0 {
		c.notify(ws.FoodMessage("updated", merged))
	}
	return merged, nil
}

// Delete removes id remotely and then from the mirror.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.remote.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	i := c.indexOf(id)
	if i >= 0 {
		c.items = append(c.items[:i:i], c.items[i+1:]...)
	}
	c.mu.Unlock()

	if i >= 0 {
		c.notify(ws.DeletedMessage(id))
	}
	return nil
}

// ToggleCreateSurface flips the create form and returns the new state.
func (c *Controller) ToggleCreateSurface() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createOpen = !c.createOpen
	return c.createOpen
}

// ToggleEditSurface flips the edit form and returns the new state.
func (c *Controller) ToggleEditSurface() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editOpen = !c.editOpen
	return c.editOpen
}

// Surfaces reports the create and edit form flags.
func (c *Controller) Surfaces() Surfaces {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Surfaces{CreateOpen: c.createOpen, EditOpen: c.editOpen}
}

// Items returns a copy of the mirror in order.
func (c *Controller) Items() []model.Food {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]model.Food, len(c.items))
	copy(items, c.items)
	return items
}

// Get returns the mirrored item with the given id.
func (c *Controller) Get(id int64) (model.Food, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(id)
	if i < 0 {
		return model.Food{}, ErrNotFound
	}
	return c.items[i], nil
}

// indexOf must be called with mu held.
func (c *Controller) indexOf(id int64) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) notify(msg ws.Message) {
	if c.hub == nil {
		return
	}
	c.hub.Broadcast(msg)
}
