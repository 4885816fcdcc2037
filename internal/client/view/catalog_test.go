package view

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"evcatalog/internal/client"
)

func newCatalogFixture(models []client.VehicleModel) *CatalogView {
	v := &CatalogView{state: CatalogLoaded}
	v.models = make([]client.VehicleModel, len(models))
	copy(v.models, models)
	return v
}

func fixtureModels() []client.VehicleModel {
	return []client.VehicleModel{
		{ID: 1, Name: "Model Y", Price: 45000, Year: 2023, Power: 384, Battery: 75},
		{ID: 2, Name: "Ioniq 5", Price: 42000, Year: 2024, Power: 320, Battery: 77},
		{ID: 3, Name: "ID.4", Price: 42000, Year: 2023, Power: 286, Battery: 77},
		{ID: 4, Name: "EV6", Price: 42000, Year: 2024, Power: 325, Battery: 77},
	}
}

func idsOf(models []client.VehicleModel) []uint64 {
	out := make([]uint64, len(models))
	for i, m := range models {
		out[i] = m.ID
	}
	return out
}

func sameIDs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortBy_PriceAscendingIsStable(t *testing.T) {
	v := newCatalogFixture(fixtureModels())

	v.SortBy(SortByPrice, Ascending)
	got := idsOf(v.Models())

	// The three 42000 entries must keep their original relative order.
	want := []uint64{2, 3, 4, 1}
	if !sameIDs(got, want) {
		t.Fatalf("expected stable ascending order %v, got %v", want, got)
	}
}

func TestSortBy_PriceDescending(t *testing.T) {
	v := newCatalogFixture(fixtureModels())

	v.SortBy(SortByPrice, Descending)
	got := idsOf(v.Models())

	// Descending keeps ties in original relative order as well.
	want := []uint64{1, 2, 3, 4}
	if !sameIDs(got, want) {
		t.Fatalf("expected stable descending order %v, got %v", want, got)
	}
}

func TestSortBy_PreservesMultiset(t *testing.T) {
	original := fixtureModels()
	v := newCatalogFixture(original)

	v.SortBy(SortByPrice, Ascending)
	v.SortBy(SortByPrice, Descending)
	v.SortBy(SortByYear, Ascending)

	got := idsOf(v.Models())
	want := idsOf(original)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	if !sameIDs(got, want) {
		t.Fatalf("sorting changed the collection: want ids %v, got %v", want, got)
	}
}

func TestSortBy_EachField(t *testing.T) {
	fields := []SortField{SortByName, SortByPrice, SortByYear, SortByPower, SortByBattery}
	for _, field := range fields {
		v := newCatalogFixture(fixtureModels())
		v.SortBy(field, Ascending)
		models := v.Models()
		for i := 1; i < len(models); i++ {
			if modelLess(&models[i], &models[i-1], field) {
				t.Fatalf("field %s: models out of order at %d", field, i)
			}
		}
	}
}

func TestModels_ReturnsCopy(t *testing.T) {
	v := newCatalogFixture(fixtureModels())

	out := v.Models()
	out[0].Name = "mutated"
	if v.models[0].Name == "mutated" {
		t.Fatalf("expected Models to return a copy")
	}
}

// catalogServer is a minimal in-memory API used to exercise the view's
// load and mutation flows.
type catalogServer struct {
	mu     sync.Mutex
	nextID uint64
	rows   []client.VehicleModel

	listCalls int
}

func newCatalogServer() *catalogServer {
	return &catalogServer{nextID: 1}
}

func (s *catalogServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			s.listCalls++
			w.Header().Set("Content-Type", "application/json")
			if errEncode := json.NewEncoder(w).Encode(s.rows); errEncode != nil {
				return
			}
		case http.MethodPost:
			var input client.VehicleModelInput
			if errDecode := json.NewDecoder(r.Body).Decode(&input); errDecode != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			row := client.VehicleModel{
				ID:      s.nextID,
				Name:    input.Name,
				Price:   input.Price,
				Year:    input.Year,
				Power:   input.Power,
				Battery: input.Battery,
			}
			s.nextID++
			s.rows = append(s.rows, row)
			w.Header().Set("Content-Type", "application/json")
			if errEncode := json.NewEncoder(w).Encode(row); errEncode != nil {
				return
			}
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func TestLoad_TransitionsToLoaded(t *testing.T) {
	srv := newCatalogServer()
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	api, errClient := client.NewClient(ts.URL)
	if errClient != nil {
		t.Fatalf("new client: %v", errClient)
	}
	v := NewCatalogView(api)
	if v.State() != CatalogIdle {
		t.Fatalf("expected idle state, got %v", v.State())
	}

	if errLoad := v.Load(context.Background()); errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if v.State() != CatalogLoaded {
		t.Fatalf("expected loaded state, got %v", v.State())
	}
}

func TestLoad_TransitionsToErrored(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	api, errClient := client.NewClient(ts.URL)
	if errClient != nil {
		t.Fatalf("new client: %v", errClient)
	}
	v := NewCatalogView(api)
	if errLoad := v.Load(context.Background()); errLoad == nil {
		t.Fatalf("expected load error")
	}
	if v.State() != CatalogErrored {
		t.Fatalf("expected errored state, got %v", v.State())
	}
	if v.Err() == nil {
		t.Fatalf("expected recorded error")
	}
}

func TestCreate_RefetchesCollection(t *testing.T) {
	srv := newCatalogServer()
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	api, errClient := client.NewClient(ts.URL)
	if errClient != nil {
		t.Fatalf("new client: %v", errClient)
	}
	v := NewCatalogView(api)
	if errLoad := v.Load(context.Background()); errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}

	input := client.VehicleModelInput{Name: "EV6", Price: 42000, Year: 2024, Power: 325, Battery: 77}
	if errCreate := v.Create(context.Background(), input); errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}

	srv.mu.Lock()
	listCalls := srv.listCalls
	srv.mu.Unlock()
	if listCalls != 2 {
		t.Fatalf("expected a refetch after create, got %d list calls", listCalls)
	}

	models := v.Models()
	if len(models) != 1 || models[0].Name != "EV6" {
		t.Fatalf("expected refetched collection with the new entry, got %v", models)
	}
}

func TestSortBy_DoesNotCallNetwork(t *testing.T) {
	srv := newCatalogServer()
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	api, errClient := client.NewClient(ts.URL)
	if errClient != nil {
		t.Fatalf("new client: %v", errClient)
	}
	v := NewCatalogView(api)
	if errLoad := v.Load(context.Background()); errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}

	v.SortBy(SortByName, Ascending)
	v.SortBy(SortByName, Descending)

	srv.mu.Lock()
	listCalls := srv.listCalls
	srv.mu.Unlock()
	if listCalls != 1 {
		t.Fatalf("expected sorting to stay local, got %d list calls", listCalls)
	}
}
