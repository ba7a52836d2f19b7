package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	rolesKey = "all"
	rolesTTL = 5 * time.Minute
)

// RoleDirectory caches GET /role/all. Roles change rarely, so one fetch
// serves every lookup within the TTL.
type RoleDirectory struct {
	source *Resource[Role]
	cache  *expirable.LRU[string, []Role]
}

func NewRoleDirectory(client *Client) *RoleDirectory {
	return &RoleDirectory{
		source: NewResource[Role](client, Roles),
		cache:  expirable.NewLRU[string, []Role](1, nil, rolesTTL),
	}
}

// All returns every role, from cache when fresh.
func (d *RoleDirectory) All(ctx context.Context) ([]Role, error) {
	if roles, ok := d.cache.Get(rolesKey); ok {
		return roles, nil
	}
	roles, err := d.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	d.cache.Add(rolesKey, roles)
	return roles, nil
}

// Resolve finds a role by numeric id or case-insensitive name.
func (d *RoleDirectory) Resolve(ctx context.Context, ref string) (Role, error) {
	roles, err := d.All(ctx)
	if err != nil {
		return Role{}, err
	}
	ref = strings.TrimSpace(ref)
	id, idErr := strconv.ParseInt(ref, 10, 64)
	for _, r := range roles {
		if idErr == nil && int64(r.ID) == id {
			return r, nil
		}
		if strings.EqualFold(r.Name, ref) {
			return r, nil
		}
	}
	return Role{}, &ValidationError{Fields: map[string]string{
		"role_id": fmt.Sprintf("role %q does not exist", ref),
	}}
}

// Default is the first role the API lists, which the dashboard preselects.
func (d *RoleDirectory) Default(ctx context.Context) (Role, error) {
	roles, err := d.All(ctx)
	if err != nil {
		return Role{}, err
	}
	if len(roles) == 0 {
		return Role{}, &TransportError{Op: "roles", Message: "no roles defined"}
	}
	return roles[0], nil
}

// Invalidate drops the cached roles.
func (d *RoleDirectory) Invalidate() {
	d.cache.Purge()
}
