package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Confirmer asks the user to approve a destructive operation
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// ErrToggleUnsupported is returned by Toggle on resources without a toggle endpoint
var ErrToggleUnsupported = errors.New("resource has no toggle")

// ResourceConfig describes one admin resource
type ResourceConfig[T any, R any] struct {
	// Path is the collection path, e.g. "/admin/articles"
	Path string
	// Name is used in confirmation prompts
	Name string
	// TogglePath is the sub-path flipping the resource's boolean, e.g. "publish"
	TogglePath string
	// ID extracts the identifier of an item
	ID func(item *T) int64
	// Validate checks a request locally; creating is false on update
	Validate func(req *R, creating bool) error
}

// ListResult is a fetched list. Demo is true when the items are the configured demo data.
type ListResult[T any] struct {
	Items []T
	Demo  bool
}

// Resource implements list/create/update/delete/toggle for one admin resource
type Resource[T any, R any] struct {
	client    *Client
	cfg       ResourceConfig[T, R]
	confirmer Confirmer
	demo      []T

	mu    sync.Mutex
	items []T
}

// NewResource creates a resource bound to the client's session
func NewResource[T any, R any](c *Client, cfg ResourceConfig[T, R], confirmer Confirmer) *Resource[T, R] {
	return &Resource[T, R]{
		client:    c,
		cfg:       cfg,
		confirmer: confirmer,
	}
}

// WithDemoData makes List answer with items, flagged as demo, when the API call fails.
// Without it List returns the error.
func (r *Resource[T, R]) WithDemoData(items []T) *Resource[T, R] {
	r.demo = append([]T(nil), items...)
	return r
}

// Items returns the list cached by the last refresh or mutation
func (r *Resource[T, R]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.items...)
}

// List fetches every record
func (r *Resource[T, R]) List(ctx context.Context) (*ListResult[T], error) {
	var items []T
	err := r.client.do(ctx, http.MethodGet, r.cfg.Path+"/", true, nil, &items)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) || r.demo == nil {
			return nil, err
		}
		r.setItems(r.demo)
		return &ListResult[T]{Items: append([]T(nil), r.demo...), Demo: true}, nil
	}

	r.setItems(items)
	return &ListResult[T]{Items: items}, nil
}

// Create validates req locally, then creates the record and refreshes the cache
func (r *Resource[T, R]) Create(ctx context.Context, req *R) (*T, error) {
	if r.client.session.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	if err := r.validate(req, true); err != nil {
		return nil, err
	}

	var item T
	if err := r.client.do(ctx, http.MethodPost, r.cfg.Path+"/", true, req, &item); err != nil {
		return nil, err
	}

	r.refresh(ctx, func(items []T) []T { return append([]T{item}, items...) })
	return &item, nil
}

// Update validates req locally, then overwrites the record and refreshes the cache
func (r *Resource[T, R]) Update(ctx context.Context, id int64, req *R) (*T, error) {
	if r.client.session.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	if err := r.validate(req, false); err != nil {
		return nil, err
	}

	var item T
	if err := r.client.do(ctx, http.MethodPut, r.itemPath(id), true, req, &item); err != nil {
		return nil, err
	}

	r.refresh(ctx, r.replace(id, item))
	return &item, nil
}

// Delete removes the record after confirmation. Declining returns ErrCancelled without a request.
func (r *Resource[T, R]) Delete(ctx context.Context, id int64) error {
	if r.client.session.Token() == "" {
		return ErrNotAuthenticated
	}
	prompt := fmt.Sprintf("Delete this %s? This cannot be undone.", r.cfg.Name)
	if r.confirmer == nil || !r.confirmer.Confirm(ctx, prompt) {
		return ErrCancelled
	}

	if err := r.client.do(ctx, http.MethodDelete, r.itemPath(id), true, nil, nil); err != nil {
		return err
	}

	r.refresh(ctx, func(items []T) []T {
		kept := items[:0]
		for i := range items {
			if r.cfg.ID(&items[i]) != id {
				kept = append(kept, items[i])
			}
		}
		return kept
	})
	return nil
}

// Toggle flips the resource's boolean (published for articles, active for members)
func (r *Resource[T, R]) Toggle(ctx context.Context, id int64) (*T, error) {
	if r.cfg.TogglePath == "" {
		return nil, ErrToggleUnsupported
	}

	var item T
	if err := r.client.do(ctx, http.MethodPatch, r.itemPath(id)+"/"+r.cfg.TogglePath, true, nil, &item); err != nil {
		return nil, err
	}

	r.refresh(ctx, r.replace(id, item))
	return &item, nil
}

func (r *Resource[T, R]) validate(req *R, creating bool) error {
	if r.cfg.Validate == nil {
		return nil
	}
	return r.cfg.Validate(req, creating)
}

func (r *Resource[T, R]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.cfg.Path, id)
}

// refresh reloads the list; when that fails the cache is patched locally with apply
func (r *Resource[T, R]) refresh(ctx context.Context, apply func(items []T) []T) {
	var items []T
	if err := r.client.do(ctx, http.MethodGet, r.cfg.Path+"/", true, nil, &items); err == nil {
		r.setItems(items)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = apply(r.items)
}

func (r *Resource[T, R]) replace(id int64, item T) func(items []T) []T {
	return func(items []T) []T {
		for i := range items {
			if r.cfg.ID(&items[i]) == id {
				items[i] = item
			}
		}
		return items
	}
}

func (r *Resource[T, R]) setItems(items []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]T(nil), items...)
}
