//go:build !integration

package i18n

import (
	"strings"
	"testing"
)

func TestTranslator(t *testing.T) {
	contentBytes := []byte("greeting: Привет\nwelcome_user: Привет %s")

	translator, err := newTranslatorFromBytes(contentBytes)
	if err != nil {
		t.Fatalf("newTranslatorFromBytes failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		got := translator.T("greeting")
		want := "Привет"
		if got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		got := translator.T("nonexistent_key")
		want := "nonexistent_key"
		if got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
		if translator.Has("nonexistent_key") {
			t.Error("expected Has to be false for a missing key")
		}
	})

	t.Run("should format arguments correctly", func(t *testing.T) {
		got := translator.T("welcome_user", "Иван")
		want := "Привет Иван"
		if got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})
}

func TestEmbeddedRussianLocale(t *testing.T) {
	tr, err := NewTranslator(LocalesFS, "ru")
	if err != nil {
		t.Fatalf("NewTranslator failed: %v", err)
	}
	for _, key := range []string{"page_main", "page_about", "page_payment", "page_catalog", "page_cart", "btn_buy"} {
		if !tr.Has(key) {
			t.Errorf("expected key %q in ru locale", key)
		}
	}
	if got := tr.T("btn_buy", 2); got != "Купить (2)" {
		t.Errorf("unexpected buy label %q", got)
	}
	if !strings.Contains(tr.T("page_payment"), "Картой в боте") {
		t.Errorf("payment page misses card option")
	}
}

func TestNewTranslator_MissingLocale(t *testing.T) {
	if _, err := NewTranslator(LocalesFS, "xx"); err == nil {
		t.Fatal("expected error for missing locale")
	}
}
