//go:build !integration

package menu

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"telegram-car-rental/internal/domain"
)

func TestPayload_RoundTrip(t *testing.T) {
	ids := []*int64{nil, ID(0), ID(1), ID(-5), ID(987654321)}
	menus := []string{MenuMain, MenuProducts, MenuAddToCart, MenuAdminEdit}
	levels := []int{LevelMain, LevelInfo, LevelProducts, LevelCart, LevelAdmin}
	pages := []int{0, 1, 42}

	for _, m := range menus {
		for _, lvl := range levels {
			for _, pg := range pages {
				for _, cat := range ids {
					for _, prod := range ids {
						for _, user := range ids {
							in := NavigationRequest{Level: lvl, Menu: m, Category: cat, Page: pg, ProductID: prod, UserID: user}
							data, err := Encode(in)
							if err != nil {
								t.Fatalf("Encode(%+v) failed: %v", in, err)
							}
							if len(data) > maxPayloadLen {
								t.Fatalf("payload %q exceeds %d bytes", data, maxPayloadLen)
							}
							if !IsPayload(data) {
								t.Fatalf("payload %q not recognised", data)
							}

							out, err := Decode(data)
							if err != nil {
								t.Fatalf("Decode(%q) failed: %v", data, err)
							}
							if !reflect.DeepEqual(in, out) {
								t.Fatalf("payload %q: expected %+v, got %+v", data, in, out)
							}
						}
					}
				}
			}
		}
	}
}

func TestPayload_ZeroIDIsNotAbsent(t *testing.T) {
	data, err := Encode(NavigationRequest{Menu: MenuCart, Level: LevelCart, UserID: ID(0)})
	if err != nil || data != "m:cart:3::0::0" {
		t.Fatalf("expected m:cart:3::0::0, got %q, %v", data, err)
	}

	data, err = Encode(NavigationRequest{Menu: MenuCart, Level: LevelCart})
	if err != nil || data != "m:cart:3::0::" {
		t.Fatalf("expected m:cart:3::0::, got %q, %v", data, err)
	}
}

func TestEncode_Rejects(t *testing.T) {
	for _, req := range []NavigationRequest{
		{},
		{Menu: "a:b"},
		{Menu: strings.Repeat("x", 60)},
	} {
		if _, err := Encode(req); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("Encode(%+v): expected ErrInvalidArgument, got %v", req, err)
		}
	}
}

func TestDecode_Rejects(t *testing.T) {
	for _, bad := range []string{
		"",
		"c:1",
		"m:main:0",
		"m::0::0::",
		"m:main:x::0::",
		"m:main:0:abc:0::",
		"m:main:0::zz::",
		"x:main:0::0::",
	} {
		if _, err := Decode(bad); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("payload %q: expected ErrInvalidArgument, got %v", bad, err)
		}
	}
}

func TestChoicePayload(t *testing.T) {
	data := ChoicePayload("12")
	if IsPayload(data) {
		t.Fatalf("choice %q must not decode as navigation", data)
	}

	v, ok := ParseChoice(data)
	if !ok || v != "12" {
		t.Fatalf("expected 12, got %q, %v", v, ok)
	}

	if _, ok := ParseChoice("m:main:0::0::"); ok {
		t.Error("navigation payload parsed as choice")
	}
}
