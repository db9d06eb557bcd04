//go:build !integration

package apiv1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/domain/ports/repository"
	"telegram-car-rental/internal/infra/api/apiv1"
	"telegram-car-rental/internal/infra/db/memory"
	"telegram-car-rental/internal/usecase"
)

type fixture struct {
	router *chi.Mux
	store  *memory.Store
	cat    *model.Category
	free   *model.Product
	busy   *model.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	cat := store.AddCategory("Дорогие")
	store.AddCategory("Простые")

	free, _ := model.NewProduct("Volvo", "", 5000, "f1", model.StatusAvailable, cat.ID)
	busy, _ := model.NewProduct("BMW", "", 7000, "f2", model.StatusOccupied, cat.ID)
	for _, p := range []*model.Product{free, busy} {
		if err := store.Products().Create(ctx, repository.NoTX, p); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}

	logger := zerolog.Nop()
	catalog := usecase.NewCatalogUseCase(store.Categories(), store.Products(), store.Banners(), &logger)
	r := chi.NewRouter()
	apiv1.RegisterAPIV1(r, apiv1.NewServer(catalog, nil))
	return &fixture{router: r, store: store, cat: cat, free: free, busy: busy}
}

func (f *fixture) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestCategories_List(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/v1/categories")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Items []model.Category `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 2 || body.Items[0].Name != "Дорогие" {
		t.Errorf("unexpected categories %+v", body.Items)
	}
}

func TestProducts_ListIncludesOccupied(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/v1/categories/"+itoa(f.cat.ID)+"/products")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Items []model.Product `json:"items"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if len(body.Items) != 2 || body.Items[1].Status != model.StatusOccupied {
		t.Errorf("admin listing must include occupied vehicles: %+v", body.Items)
	}

	if rec := f.do(http.MethodGet, "/api/v1/categories/999/products"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown category: status = %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/api/v1/categories/abc/products"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d", rec.Code)
	}
}

func TestProducts_EmptyCategoryEncodesEmptyList(t *testing.T) {
	f := newFixture(t)
	other, _ := f.store.CategoryByName("Простые")
	rec := f.do(http.MethodGet, "/api/v1/categories/"+itoa(other.ID)+"/products")
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"items\":[]}\n" {
		t.Errorf("expected empty items array, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestProducts_GetAndDelete(t *testing.T) {
	f := newFixture(t)
	path := "/api/v1/products/" + itoa(f.free.ID)

	rec := f.do(http.MethodGet, path)
	var p model.Product
	_ = json.Unmarshal(rec.Body.Bytes(), &p)
	if rec.Code != http.StatusOK || p.Name != "Volvo" {
		t.Fatalf("get: %d %+v", rec.Code, p)
	}

	if rec := f.do(http.MethodDelete, path); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, path); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, path); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d", rec.Code)
	}
}

func itoa(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
