//go:build !integration

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeStat struct{ total, idle, acquired, max int32 }

func (s fakeStat) TotalConns() int32    { return s.total }
func (s fakeStat) IdleConns() int32     { return s.idle }
func (s fakeStat) AcquiredConns() int32 { return s.acquired }
func (s fakeStat) MaxConns() int32      { return s.max }

func TestRegister_IsRepeatable(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second Register failed: %v", err)
	}
	SetBuildInfo("test", "abc")
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "carrental_build_info" {
			found = true
		}
	}
	if !found {
		t.Error("expected carrental_build_info to be exported")
	}
}

func TestObserveCache(t *testing.T) {
	before := testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("category_list", "hit"))
	ObserveCache(" Category_List ", true)
	ObserveCache("category_list", false)
	if got := testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("category_list", "hit")); got != before+1 {
		t.Errorf("expected one more hit, got %v -> %v", before, got)
	}
}

func TestObservePool(t *testing.T) {
	ObservePool(fakeStat{total: 5, idle: 2, acquired: 3, max: 10})
	cases := map[string]float64{"total": 5, "idle": 2, "acquired": 3, "max": 10}
	for state, want := range cases {
		if got := testutil.ToFloat64(dbConnections.WithLabelValues(state)); got != want {
			t.Errorf("state %s: expected %v, got %v", state, want, got)
		}
	}
}
