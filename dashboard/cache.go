package dashboard

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"verification-dashboard/models"
)

// Fetcher loads the full company list from the API.
type Fetcher func(ctx context.Context) ([]models.Company, error)

// ListCache holds one operator's company snapshot. Mutations call Invalidate
// instead of patching the snapshot; the next Get performs a single shared
// refetch. Every fetch takes a sequence number and a response is only applied
// when it is newer than the snapshot already held.
type ListCache struct {
	fetch Fetcher
	group singleflight.Group

	mu        sync.Mutex
	companies []models.Company
	loaded    bool
	gen       uint64 // bumped by Invalidate
	freshGen  uint64 // generation the snapshot is current for
	issued    uint64
	applied   uint64
}

func NewListCache(fetch Fetcher) *ListCache {
	return &ListCache{fetch: fetch}
}

// Invalidate marks the snapshot stale.
func (c *ListCache) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
}

// Snapshot returns the current snapshot without fetching.
func (c *ListCache) Snapshot() ([]models.Company, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.companies), c.loaded
}

// Get returns the snapshot, refetching first when it is missing or stale.
// On fetch failure the previous snapshot is returned together with the error.
func (c *ListCache) Get(ctx context.Context) ([]models.Company, error) {
	c.mu.Lock()
	if c.loaded && c.freshGen == c.gen {
		snap := slices.Clone(c.companies)
		c.mu.Unlock()
		return snap, nil
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh fetches unconditionally. Concurrent calls for the same generation
// share one request.
func (c *ListCache) Refresh(ctx context.Context) ([]models.Company, error) {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	// The shared fetch must outlive any single caller's request.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		return c.fetchAndApply(fetchCtx, gen)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			prior, _ := c.Snapshot()
			return prior, res.Err
		}
		return slices.Clone(res.Val.([]models.Company)), nil
	case <-ctx.Done():
		prior, _ := c.Snapshot()
		return prior, ctx.Err()
	}
}

func (c *ListCache) fetchAndApply(ctx context.Context, gen uint64) ([]models.Company, error) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	companies, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if seq > c.applied {
		c.companies = companies
		c.applied = seq
		c.loaded = true
		c.freshGen = gen
	}
	return slices.Clone(c.companies), nil
}

// Workspace is the per-session dashboard state: the list cache and the
// company whose report is open.
type Workspace struct {
	List *ListCache

	mu       sync.Mutex
	selected *models.Company
	lastUsed time.Time
}

func NewWorkspace(fetch Fetcher) *Workspace {
	return &Workspace{List: NewListCache(fetch), lastUsed: time.Now()}
}

// Select replaces the open report wholesale.
func (w *Workspace) Select(c models.Company) {
	w.mu.Lock()
	w.selected = &c
	w.mu.Unlock()
}

func (w *Workspace) ClearSelection() {
	w.mu.Lock()
	w.selected = nil
	w.mu.Unlock()
}

func (w *Workspace) Selected() (models.Company, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil {
		return models.Company{}, false
	}
	return *w.selected, true
}

// Open returns the company for a report view: the current selection when it
// matches id, otherwise the list entry, which then becomes the selection.
func (w *Workspace) Open(ctx context.Context, id string) (models.Company, bool, error) {
	if sel, ok := w.Selected(); ok && sel.ID == id {
		return sel, true, nil
	}
	companies, err := w.List.Get(ctx)
	for _, c := range companies {
		if c.ID == id {
			w.Select(c)
			return c, true, err
		}
	}
	return models.Company{}, false, err
}

func (w *Workspace) touch() {
	w.mu.Lock()
	w.lastUsed = time.Now()
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

// Registry maps session ids to workspaces.
type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry() *Registry {
	return &Registry{workspaces: make(map[string]*Workspace)}
}

// Workspace returns the session's workspace, creating it with fetch on first
// use.
func (r *Registry) Workspace(sessionID string, fetch Fetcher) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.workspaces[sessionID]
	if !ok {
		ws = NewWorkspace(fetch)
		r.workspaces[sessionID] = ws
	}
	ws.touch()
	return ws
}

func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.workspaces, sessionID)
	r.mu.Unlock()
}

// Sweep drops workspaces idle for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, ws := range r.workspaces {
		if ws.idleSince().Before(cutoff) {
			delete(r.workspaces, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
