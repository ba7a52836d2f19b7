package collection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func rowID(r row) int { return r.ID }

type sortCall struct {
	column string
	dir    Direction
}

// fakeSource records calls and answers from programmable fields.
type fakeSource struct {
	mu sync.Mutex

	all       []row
	allErr    error
	sorted    []row
	sortErr   error
	searched  []row
	searchErr error
	removeErr error

	allCalls    int
	sortCalls   []sortCall
	searchCalls []string
	removed     []int
	calls       []string

	// block, when set, is consulted before answering FetchAll.
	block func() <-chan struct{}
}

func (f *fakeSource) FetchAll(_ context.Context) ([]row, error) {
	f.mu.Lock()
	f.allCalls++
	f.calls = append(f.calls, "all")
	block := f.block
	f.mu.Unlock()
	if block != nil {
		if ch := block(); ch != nil {
			<-ch
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.all, f.allErr
}

func (f *fakeSource) FetchSorted(_ context.Context, column string, dir Direction) ([]row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sortCalls = append(f.sortCalls, sortCall{column, dir})
	f.calls = append(f.calls, "sort")
	return f.sorted, f.sortErr
}

func (f *fakeSource) FetchSearch(_ context.Context, query string) ([]row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, query)
	f.calls = append(f.calls, "search")
	return f.searched, f.searchErr
}

func (f *fakeSource) Remove(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	f.calls = append(f.calls, "remove")
	return f.removeErr
}

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

var (
	foo = row{ID: 1, Title: "Foo"}
	bar = row{ID: 2, Title: "Bar"}
	baz = row{ID: 3, Title: "Baz"}
)

func newController(src *fakeSource) *Controller[int, row] {
	return New[int, row]("rows", src, rowID)
}

func TestController_Load(t *testing.T) {
	t.Run("Should start idle", func(t *testing.T) {
		ctrl := newController(&fakeSource{})
		st := ctrl.Snapshot()
		assert.Equal(t, StatusIdle, st.Status)
		assert.Empty(t, st.Items)
		assert.Nil(t, st.Sort)
		assert.Nil(t, st.PendingDeleteID)
	})

	t.Run("Should replace items verbatim on success", func(t *testing.T) {
		src := &fakeSource{all: []row{baz, foo, foo, bar}}
		ctrl := newController(src)
		st := ctrl.Load(context.Background())
		assert.Equal(t, StatusReady, st.Status)
		assert.Empty(t, st.ErrorMessage)
		assert.Equal(t, []row{baz, foo, foo, bar}, st.Items)
		assert.Equal(t, 1, src.allCalls)
	})

	t.Run("Should clear sort and search on success", func(t *testing.T) {
		src := &fakeSource{all: []row{foo, bar}, sorted: []row{bar, foo}, searched: []row{foo}}
		ctrl := newController(src)
		ctrl.SortBy(context.Background(), "title")
		ctrl.Search(context.Background(), "foo")
		st := ctrl.Load(context.Background())
		assert.Nil(t, st.Sort)
		assert.Empty(t, st.SearchQuery)
		assert.Equal(t, []row{foo, bar}, st.Items)
	})

	t.Run("Should keep previous items when load fails", func(t *testing.T) {
		src := &fakeSource{all: []row{foo, bar, baz}}
		ctrl := newController(src)
		ctrl.Load(context.Background())
		src.all = nil
		src.allErr = errors.New("connection refused")
		st := ctrl.Load(context.Background())
		assert.Equal(t, StatusFailed, st.Status)
		assert.Equal(t, "connection refused", st.ErrorMessage)
		assert.Equal(t, []row{foo, bar, baz}, st.Items)
	})

	t.Run("Should clear the error when the next request starts", func(t *testing.T) {
		src := &fakeSource{allErr: errors.New("boom")}
		ctrl := newController(src)
		require.True(t, ctrl.Load(context.Background()).Failed())
		src.allErr = nil
		src.all = []row{foo}
		st := ctrl.Load(context.Background())
		assert.Equal(t, StatusReady, st.Status)
		assert.Empty(t, st.ErrorMessage)
	})

	t.Run("Should fall back to a generic message for blank errors", func(t *testing.T) {
		ctrl := newController(&fakeSource{allErr: errors.New("  ")})
		st := ctrl.Load(context.Background())
		assert.Equal(t, "request failed", st.ErrorMessage)
	})
}

func TestController_SortBy(t *testing.T) {
	t.Run("Should start ascending and flip on the same column", func(t *testing.T) {
		src := &fakeSource{sorted: []row{bar, foo}}
		ctrl := newController(src)
		st := ctrl.SortBy(context.Background(), "title")
		require.NotNil(t, st.Sort)
		assert.Equal(t, SortKey{Column: "title", Direction: Ascending}, *st.Sort)
		st = ctrl.SortBy(context.Background(), "title")
		assert.Equal(t, SortKey{Column: "title", Direction: Descending}, *st.Sort)
		assert.Equal(t, []sortCall{{"title", Ascending}, {"title", Descending}}, src.sortCalls)
	})

	t.Run("Should restart ascending when the column changes", func(t *testing.T) {
		src := &fakeSource{}
		ctrl := newController(src)
		ctrl.SortBy(context.Background(), "title")
		ctrl.SortBy(context.Background(), "title")
		st := ctrl.SortBy(context.Background(), "status")
		assert.Equal(t, SortKey{Column: "status", Direction: Ascending}, *st.Sort)
	})

	t.Run("Should keep items in server order", func(t *testing.T) {
		src := &fakeSource{sorted: []row{baz, foo, bar}}
		ctrl := newController(src)
		st := ctrl.SortBy(context.Background(), "id")
		assert.Equal(t, []row{baz, foo, bar}, st.Items)
		assert.Equal(t, StatusReady, st.Status)
	})

	t.Run("Should keep the toggled sort when the request fails", func(t *testing.T) {
		src := &fakeSource{sorted: []row{foo}}
		ctrl := newController(src)
		ctrl.SortBy(context.Background(), "title")
		src.sortErr = errors.New("bad gateway")
		st := ctrl.SortBy(context.Background(), "title")
		assert.Equal(t, StatusFailed, st.Status)
		assert.Equal(t, SortKey{Column: "title", Direction: Descending}, *st.Sort)
		assert.Equal(t, []row{foo}, st.Items)
	})

	t.Run("Should leave the search query untouched", func(t *testing.T) {
		src := &fakeSource{searched: []row{foo}, sorted: []row{bar, foo}}
		ctrl := newController(src)
		ctrl.Search(context.Background(), "o")
		st := ctrl.SortBy(context.Background(), "title")
		assert.Equal(t, "o", st.SearchQuery)
		assert.Equal(t, []row{bar, foo}, st.Items)
	})
}

func TestController_Search(t *testing.T) {
	t.Run("Should keep every record for an empty query", func(t *testing.T) {
		src := &fakeSource{searched: []row{foo, bar}}
		ctrl := newController(src)
		st := ctrl.Search(context.Background(), "")
		assert.Equal(t, []row{foo, bar}, st.Items)
		assert.Equal(t, []string{""}, src.searchCalls)
	})

	t.Run("Should re-filter a server that ignores the query", func(t *testing.T) {
		src := &fakeSource{searched: []row{foo, bar}}
		ctrl := newController(src)
		st := ctrl.Search(context.Background(), "foo")
		assert.Equal(t, []row{foo}, st.Items)
		assert.Equal(t, "foo", st.SearchQuery)
		assert.Equal(t, StatusReady, st.Status)
	})

	t.Run("Should keep the query and items when the request fails", func(t *testing.T) {
		src := &fakeSource{all: []row{foo, bar}, searchErr: errors.New("timeout")}
		ctrl := newController(src)
		ctrl.Load(context.Background())
		st := ctrl.Search(context.Background(), "zzz")
		assert.Equal(t, StatusFailed, st.Status)
		assert.Equal(t, "zzz", st.SearchQuery)
		assert.Equal(t, []row{foo, bar}, st.Items)
	})
}

func TestController_Delete(t *testing.T) {
	t.Run("Should remove once then reload once", func(t *testing.T) {
		src := &fakeSource{all: []row{foo, bar, {ID: 5, Title: "Five"}}}
		ctrl := newController(src)
		ctrl.Load(context.Background())
		src.calls = nil
		src.allCalls = 0

		require.True(t, ctrl.RequestDelete(5))
		pending := ctrl.Snapshot().PendingDeleteID
		require.NotNil(t, pending)
		assert.Equal(t, 5, *pending)

		src.all = []row{foo, bar}
		st := ctrl.ConfirmDelete(context.Background())
		assert.Equal(t, []int{5}, src.removed)
		assert.Equal(t, 1, src.allCalls)
		assert.Equal(t, []string{"remove", "all"}, src.calls)
		assert.Nil(t, st.PendingDeleteID)
		assert.Equal(t, []row{foo, bar}, st.Items)
		assert.Equal(t, StatusReady, st.Status)
	})

	t.Run("Should close the confirmation and keep rows when remove fails", func(t *testing.T) {
		src := &fakeSource{all: []row{foo, bar}, removeErr: errors.New("forbidden")}
		ctrl := newController(src)
		ctrl.Load(context.Background())
		src.allCalls = 0
		require.True(t, ctrl.RequestDelete(2))
		st := ctrl.ConfirmDelete(context.Background())
		assert.Nil(t, st.PendingDeleteID)
		assert.Equal(t, StatusFailed, st.Status)
		assert.Contains(t, st.ErrorMessage, "failed to delete 2")
		assert.Contains(t, st.ErrorMessage, "forbidden")
		assert.Equal(t, []row{foo, bar}, st.Items)
		assert.Zero(t, src.allCalls)
	})

	t.Run("Should ignore ids that are not listed", func(t *testing.T) {
		src := &fakeSource{all: []row{foo}}
		ctrl := newController(src)
		ctrl.Load(context.Background())
		assert.False(t, ctrl.RequestDelete(42))
		assert.Nil(t, ctrl.Snapshot().PendingDeleteID)
	})

	t.Run("Should do nothing when confirming without a pending id", func(t *testing.T) {
		src := &fakeSource{all: []row{foo}}
		ctrl := newController(src)
		ctrl.Load(context.Background())
		before := ctrl.Snapshot()
		src.calls = nil
		after := ctrl.ConfirmDelete(context.Background())
		assert.Empty(t, src.calls)
		assert.Equal(t, before, after)
	})

	t.Run("Should be idempotent when cancelling", func(t *testing.T) {
		src := &fakeSource{all: []row{foo}}
		ctrl := newController(src)
		ctrl.Load(context.Background())
		ctrl.RequestDelete(1)
		ctrl.CancelDelete()
		once := ctrl.Snapshot()
		ctrl.CancelDelete()
		twice := ctrl.Snapshot()
		assert.Nil(t, twice.PendingDeleteID)
		assert.Equal(t, once, twice)
	})

	t.Run("Should not issue a second remove after a double confirm", func(t *testing.T) {
		src := &fakeSource{all: []row{foo}}
		ctrl := newController(src)
		ctrl.Load(context.Background())
		ctrl.RequestDelete(1)
		ctrl.ConfirmDelete(context.Background())
		ctrl.ConfirmDelete(context.Background())
		assert.Equal(t, []int{1}, src.removed)
	})
}

func TestController_Fencing(t *testing.T) {
	t.Run("Should drop a response that arrives after a newer request", func(t *testing.T) {
		release := make(chan struct{})
		var first sync.Once
		src := &fakeSource{all: []row{foo, bar}, sorted: []row{baz}}
		src.block = func() <-chan struct{} {
			var ch <-chan struct{}
			first.Do(func() { ch = release })
			return ch
		}
		ctrl := newController(src)

		done := make(chan State[int, row])
		go func() { done <- ctrl.Load(context.Background()) }()
		require.Eventually(t, func() bool {
			src.mu.Lock()
			defer src.mu.Unlock()
			return src.allCalls == 1
		}, timeout, tick)

		sorted := ctrl.SortBy(context.Background(), "title")
		assert.Equal(t, []row{baz}, sorted.Items)

		close(release)
		stale := <-done
		assert.Equal(t, []row{baz}, stale.Items)
		assert.Equal(t, StatusReady, stale.Status)
		require.NotNil(t, stale.Sort)
		assert.Equal(t, "title", stale.Sort.Column)
	})
}

func TestState_Snapshot(t *testing.T) {
	t.Run("Should not alias controller state", func(t *testing.T) {
		src := &fakeSource{all: []row{foo, bar}}
		ctrl := newController(src)
		st := ctrl.Load(context.Background())
		st.Items[0] = baz
		assert.Equal(t, []row{foo, bar}, ctrl.Snapshot().Items)
	})
}
