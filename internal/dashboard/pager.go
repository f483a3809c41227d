package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"sales_dashboard/internal/apiclient"
	"sales_dashboard/internal/listview"
	"sales_dashboard/internal/store"
)

type fetchFunc[T any] func(ctx context.Context, limit, offset int) (apiclient.Page[T], error)

// pager keeps one store collection in step with the API and renders it through a list view.
// Remote lists hold a single server page; the others hold everything the API returned.
type pager[T any] struct {
	entity string
	coll   *store.Collection[T]
	cfg    listview.Config[T]
	fetch  fetchFunc[T]
	logger *zap.Logger

	mu   sync.Mutex
	page int
}

func newPager[T any](entity string, coll *store.Collection[T], cfg listview.Config[T], fetch fetchFunc[T], logger *zap.Logger) *pager[T] {
	return &pager[T]{entity: entity, coll: coll, cfg: cfg, fetch: fetch, logger: logger}
}

// Load replaces the collection with the given page. On failure the collection is emptied.
// A remote page past the last one is refused and leaves the collection as it was.
func (p *pager[T]) Load(ctx context.Context, page int) error {
	_, err := p.load(ctx, page)
	return err
}

// load fetches page and installs it unless a newer fetch has started meanwhile. Either way
// it returns what this fetch got, so the caller renders the page it asked for.
func (p *pager[T]) load(ctx context.Context, page int) (apiclient.Page[T], error) {
	if page < 1 || !p.cfg.Remote {
		page = 1
	}
	limit, offset := 0, 0
	if p.cfg.Remote {
		limit = p.cfg.PageSize
		offset = (page - 1) * limit
	}

	ticket := p.coll.Begin()
	res, err := p.fetch(ctx, limit, offset)
	if err != nil {
		p.coll.Fail(ticket)
		p.logger.Error("fetch failed",
			zap.String("entity", p.entity),
			zap.Int("page", page),
			zap.Error(err),
		)
		return apiclient.Page[T]{}, failed("fetch "+p.entity, err)
	}
	if p.cfg.Remote && page > 1 && offset >= res.Total {
		pages := listview.TotalPages(res.Total, limit)
		return apiclient.Page[T]{}, fmt.Errorf("%w: %d of %d", listview.ErrPageOutOfRange, page, pages)
	}
	if !p.coll.Replace(ticket, res.Items, res.Total) {
		p.logger.Debug("dropped superseded fetch", zap.String("entity", p.entity), zap.Int("page", page))
		return res, nil
	}
	p.mu.Lock()
	p.page = page
	p.mu.Unlock()
	return res, nil
}

func (p *pager[T]) loadedPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// current returns the items and total for page, fetching them unless the store already
// holds that page.
func (p *pager[T]) current(ctx context.Context, page int, refresh bool) ([]T, int, error) {
	if !p.cfg.Remote {
		page = 1
	}
	if refresh || !p.coll.Loaded() || p.loadedPage() != page {
		res, err := p.load(ctx, page)
		if err != nil {
			return nil, 0, err
		}
		return res.Items, res.Total, nil
	}
	items, total := p.coll.Snapshot()
	return items, total, nil
}

func (p *pager[T]) view(q Query) (*listview.View[T], error) {
	v := listview.New(p.cfg)
	if err := v.Apply(q.Query); err != nil {
		return nil, err
	}
	return v, nil
}

// List renders one page. A fetch failure still yields an empty list carrying the message.
func (p *pager[T]) List(ctx context.Context, q Query) (List[T], error) {
	v, err := p.view(q)
	if err != nil {
		return List[T]{}, err
	}
	items, total, err := p.current(ctx, v.CurrentPage(), q.Refresh)
	if err != nil {
		var failure *Failure
		if errors.As(err, &failure) {
			return p.empty(v, err), err
		}
		return List[T]{}, err
	}

	serverTotal := 0
	if p.cfg.Remote {
		serverTotal = total
	}
	page, err := v.Paginate(v.Rows(items), serverTotal)
	if err != nil {
		return List[T]{}, err
	}
	return p.wrap(v, page), nil
}

// Rows returns every filtered and sorted row the store holds for the query, unpaginated.
func (p *pager[T]) Rows(ctx context.Context, q Query) ([]T, error) {
	v, err := p.view(q)
	if err != nil {
		return nil, err
	}
	items, _, err := p.current(ctx, v.CurrentPage(), q.Refresh)
	if err != nil {
		return nil, err
	}
	return v.Rows(items), nil
}

func (p *pager[T]) empty(v *listview.View[T], err error) List[T] {
	l := p.wrap(v, listview.Page[T]{
		Rows:       []T{},
		Page:       v.CurrentPage(),
		PageSize:   p.cfg.PageSize,
		TotalPages: 1,
	})
	l.Error = err.Error()
	return l
}

func (p *pager[T]) wrap(v *listview.View[T], page listview.Page[T]) List[T] {
	field, dir := v.Sort()
	return List[T]{Page: page, Sort: field, Order: dir, Term: v.Term()}
}
