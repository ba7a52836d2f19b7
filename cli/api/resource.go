package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/MLinh204/Class-Helper-Admin/internal/collection"
)

// Resource is the REST binding of one entity family. It satisfies
// collection.Source so a Controller can drive it.
type Resource[T Record] struct {
	client *Client
	desc   Descriptor
	listID int64
}

var _ collection.Source[int64, User] = (*Resource[User])(nil)

func NewResource[T Record](client *Client, desc Descriptor) *Resource[T] {
	return &Resource[T]{client: client, desc: desc}
}

// InList scopes a nested family (vocab, attendance records) to a parent list.
func (r *Resource[T]) InList(listID int64) *Resource[T] {
	scoped := *r
	scoped.listID = listID
	return &scoped
}

func (r *Resource[T]) Descriptor() Descriptor {
	return r.desc
}

func (r *Resource[T]) op(name string) string {
	return r.desc.Name + " " + name
}

func (r *Resource[T]) path(tmpl string) (string, error) {
	return r.desc.resolve(tmpl, r.listID)
}

func (r *Resource[T]) list(ctx context.Context, op, tmpl string, query map[string]string) ([]T, error) {
	path, err := r.path(tmpl)
	if err != nil {
		return nil, &TransportError{Op: r.op(op), Err: err}
	}
	var items []T
	if err := r.client.do(ctx, request{op: r.op(op), method: http.MethodGet, path: path, query: query}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FetchAll calls GET <all>.
func (r *Resource[T]) FetchAll(ctx context.Context) ([]T, error) {
	return r.list(ctx, "list", r.desc.AllPath, nil)
}

// FetchSorted calls GET <sort>?column=&order=ASC|DESC.
func (r *Resource[T]) FetchSorted(ctx context.Context, column string, dir collection.Direction) ([]T, error) {
	if !r.desc.CanSort() {
		return nil, &TransportError{Op: r.op("sort"), Err: ErrUnsupported}
	}
	return r.list(ctx, "sort", r.desc.SortPath, map[string]string{
		"column": column,
		"order":  dir.String(),
	})
}

// FetchSearch calls GET <search>?<param>=query. The parameter name differs
// between families.
func (r *Resource[T]) FetchSearch(ctx context.Context, query string) ([]T, error) {
	if !r.desc.CanSearch() {
		return nil, &TransportError{Op: r.op("search"), Err: ErrUnsupported}
	}
	return r.list(ctx, "search", r.desc.SearchPath, map[string]string{r.desc.SearchParam: query})
}

// Remove calls DELETE <item>/<id>.
func (r *Resource[T]) Remove(ctx context.Context, id int64) error {
	return r.client.do(ctx, request{
		op:     r.op("delete"),
		method: http.MethodDelete,
		path:   r.itemPath(id),
	}, nil)
}

// Get calls GET <item>/<id>.
func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	var item T
	if err := r.client.do(ctx, request{op: r.op("get"), method: http.MethodGet, path: r.itemPath(id)}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update sends PUT <item>/<id> with only the given fields.
func (r *Resource[T]) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update")
	}
	return r.client.do(ctx, request{
		op:     r.op("update"),
		method: http.MethodPut,
		path:   r.itemPath(id),
		body:   fields,
	}, nil)
}

// Create POSTs body to the family's create path.
func (r *Resource[T]) Create(ctx context.Context, body any) error {
	if !r.desc.CanCreate() {
		return &TransportError{Op: r.op("create"), Err: ErrUnsupported}
	}
	path, err := r.path(r.desc.CreatePath)
	if err != nil {
		return &TransportError{Op: r.op("create"), Err: err}
	}
	return r.client.do(ctx, request{op: r.op("create"), method: http.MethodPost, path: path, body: body}, nil)
}

// Put sends a PUT to a family specific action path such as
// /student/updatePoint/{id}.
func (r *Resource[T]) Put(ctx context.Context, op, prefix string, id int64, body any) error {
	return r.client.do(ctx, request{
		op:     r.op(op),
		method: http.MethodPut,
		path:   prefix + "/" + strconv.FormatInt(id, 10),
		body:   body,
	}, nil)
}

func (r *Resource[T]) itemPath(id int64) string {
	return r.desc.ItemPath + "/" + strconv.FormatInt(id, 10)
}

// KeyOf is the controller key function for every family.
func KeyOf[T Record](row T) int64 {
	return row.RecordID()
}
