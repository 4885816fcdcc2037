// Package view models the browser app's data and session views as
// explicit state machines over the API client.
package view

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"evcatalog/internal/client"
)

// CatalogState is the lifecycle state of the catalog view.
type CatalogState int

const (
	// CatalogIdle is the state before the first load.
	CatalogIdle CatalogState = iota
	// CatalogLoading is the state while a list request is in flight.
	CatalogLoading
	// CatalogLoaded is the state after a successful load.
	CatalogLoaded
	// CatalogErrored is the terminal state after a failed load.
	CatalogErrored
)

// SortField selects the sort key for the loaded collection.
type SortField string

const (
	SortByName    SortField = "name"
	SortByPrice   SortField = "price"
	SortByYear    SortField = "year"
	SortByPower   SortField = "power"
	SortByBattery SortField = "battery"
)

// SortDirection selects ascending or descending order.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// CatalogView holds the fetched collection and a client-local sort over it.
// Mutations are never applied locally; a successful mutation forces a full
// reload of authoritative state.
type CatalogView struct {
	api *client.Client

	state  CatalogState
	models []client.VehicleModel
	err    error

	sortField     SortField
	sortDirection SortDirection
	sorted        bool
}

// NewCatalogView constructs an idle catalog view over the API client.
func NewCatalogView(api *client.Client) *CatalogView {
	return &CatalogView{api: api, state: CatalogIdle}
}

// State returns the current lifecycle state.
func (v *CatalogView) State() CatalogState { return v.state }

// Err returns the load error in the Errored state.
func (v *CatalogView) Err() error { return v.err }

// Load fetches the collection, transitioning Loading then Loaded or Errored.
// A failed load is terminal; it is logged and not retried automatically.
func (v *CatalogView) Load(ctx context.Context) error {
	v.state = CatalogLoading
	rows, errList := v.api.ListModels(ctx, "")
	if errList != nil {
		v.state = CatalogErrored
		v.err = errList
		log.WithError(errList).Error("catalog load failed")
		return errList
	}
	v.state = CatalogLoaded
	v.err = nil
	v.models = rows
	v.resort()
	return nil
}

// Models returns the loaded collection in the current sort order.
func (v *CatalogView) Models() []client.VehicleModel {
	out := make([]client.VehicleModel, len(v.models))
	copy(out, v.models)
	return out
}

// SortBy applies a stable, client-local sort over the loaded collection.
// Sorting never triggers a network call.
func (v *CatalogView) SortBy(field SortField, direction SortDirection) {
	v.sortField = field
	v.sortDirection = direction
	v.sorted = true
	v.resort()
}

// ClearSort restores the server-returned order on the next load; the
// current collection keeps its present order.
func (v *CatalogView) ClearSort() {
	v.sorted = false
}

// resort recomputes the sorted collection when a sort key is active.
func (v *CatalogView) resort() {
	if !v.sorted {
		return
	}
	field := v.sortField
	descending := v.sortDirection == Descending
	sort.SliceStable(v.models, func(i, j int) bool {
		if descending {
			return modelLess(&v.models[j], &v.models[i], field)
		}
		return modelLess(&v.models[i], &v.models[j], field)
	})
}

// modelLess compares two entries by the chosen field.
func modelLess(a, b *client.VehicleModel, field SortField) bool {
	switch field {
	case SortByName:
		return a.Name < b.Name
	case SortByPrice:
		return a.Price < b.Price
	case SortByYear:
		return a.Year < b.Year
	case SortByPower:
		return a.Power < b.Power
	case SortByBattery:
		return a.Battery < b.Battery
	default:
		return false
	}
}

// Create adds an entry and reloads the authoritative collection.
func (v *CatalogView) Create(ctx context.Context, input client.VehicleModelInput) error {
	if _, errCreate := v.api.CreateModel(ctx, input); errCreate != nil {
		return fmt.Errorf("create model: %w", errCreate)
	}
	return v.Load(ctx)
}

// Update replaces an entry and reloads the authoritative collection.
func (v *CatalogView) Update(ctx context.Context, id uint64, input client.VehicleModelInput) error {
	if _, errUpdate := v.api.UpdateModel(ctx, id, input); errUpdate != nil {
		return fmt.Errorf("update model: %w", errUpdate)
	}
	return v.Load(ctx)
}

// Delete removes an entry and reloads the authoritative collection.
func (v *CatalogView) Delete(ctx context.Context, id uint64) error {
	if errDelete := v.api.DeleteModel(ctx, id); errDelete != nil {
		return fmt.Errorf("delete model: %w", errDelete)
	}
	return v.Load(ctx)
}
