package handlers

import (
	"context"

	"stocklens/analysis"
	"stocklens/auth"
	"stocklens/ga4"
	"stocklens/storage"
)

// API carries the shared application state into the route handlers.
type API struct {
	Store     *analysis.Store
	Passwords *auth.Manager
}

// New wires the handler set to the store and password manager owned by main.
func New(store *analysis.Store, passwords *auth.Manager) *API {
	return &API{Store: store, Passwords: passwords}
}

// storageClient builds a storage client on demand; callers treat an
// error as "storage not configured".
func (a *API) storageClient(ctx context.Context) (*storage.Client, error) {
	return storage.NewClient(ctx)
}

// ga4Client builds a GA4 client on demand.
func (a *API) ga4Client(ctx context.Context) (*ga4.Client, error) {
	return ga4.NewClient(ctx)
}
