//go:build !integration

package form

import (
	"context"
	"errors"
	"strings"
	"testing"

	"telegram-car-rental/internal/domain"
)

func TestNonNegativeNumber(t *testing.T) {
	v := NonNegativeNumber(9999999999.99, 2, "bad")
	ctx := context.Background()

	cases := map[string]string{
		"19.99":         "19.99",
		"1500,5":        "1500.5",
		"0":             "0",
		"9999999999.99": "9999999999.99",
	}
	for in, want := range cases {
		got, err := v(ctx, Input{Text: in})
		if err != nil {
			t.Fatalf("input %q: unexpected error %v", in, err)
		}
		if got != want {
			t.Errorf("input %q: expected %q, got %q", in, want, got)
		}
	}

	for _, bad := range []string{"abc", "", "-1", "1e3", "12a", "100000000000", "10000000000.00", "19.999"} {
		if _, err := v(ctx, Input{Text: bad}); !errors.Is(err, domain.ErrValidationFailed) {
			t.Errorf("input %q: expected ErrValidationFailed, got %v", bad, err)
		}
	}
}

func TestMaxLen(t *testing.T) {
	v := MaxLen(1, 100, "long")
	ctx := context.Background()

	if _, err := v(ctx, Input{Text: strings.Repeat("я", 100)}); err != nil {
		t.Fatalf("100 runes should pass: %v", err)
	}
	if _, err := v(ctx, Input{Text: strings.Repeat("я", 101)}); !errors.Is(err, domain.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed for 101 runes, got %v", err)
	}
	if _, err := v(ctx, Input{Text: ""}); !errors.Is(err, domain.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed for empty text, got %v", err)
	}
	// Whitespace is not trimmed away.
	got, err := v(ctx, Input{Text: "  "})
	if err != nil || got != "  " {
		t.Errorf("expected whitespace to be kept, got %q, %v", got, err)
	}
}

func TestTrimmedLen(t *testing.T) {
	v := TrimmedLen(1, 5, "name")
	ctx := context.Background()

	got, err := v(ctx, Input{Text: "  Иван "})
	if err != nil || got != "Иван" {
		t.Fatalf("expected trimmed value, got %q, %v", got, err)
	}
	if _, err := v(ctx, Input{Text: "   "}); !errors.Is(err, domain.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed for blank text, got %v", err)
	}
	if _, err := v(ctx, Input{Text: " Иванов "}); !errors.Is(err, domain.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed for long text, got %v", err)
	}
}

func TestOwnContact(t *testing.T) {
	v := OwnContact("share yours")
	ctx := context.Background()

	got, err := v(ctx, Input{SenderID: 5, Contact: &Contact{Phone: "79991234567", UserID: 5}})
	if err != nil || got != "+79991234567" {
		t.Fatalf("expected +79991234567, got %q, %v", got, err)
	}

	_, err = v(ctx, Input{SenderID: 5, Contact: &Contact{Phone: "79991234567", UserID: 6}})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Message != "share yours" {
		t.Fatalf("expected re-prompt for foreign contact, got %v", err)
	}

	if _, err := v(ctx, Input{SenderID: 5, Contact: &Contact{Phone: "abc", UserID: 5}}); !errors.Is(err, domain.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed for bad phone, got %v", err)
	}
}

func TestChoiceFrom(t *testing.T) {
	opts := func(context.Context) ([]Option, error) {
		return []Option{{Label: "Дорогие", Value: "1"}, {Label: "Простые", Value: "2"}}, nil
	}
	v := ChoiceFrom(opts, "pick one")
	ctx := context.Background()

	got, err := v(ctx, Input{Choice: "2"})
	if err != nil || got != "2" {
		t.Fatalf("expected 2, got %q, %v", got, err)
	}
	if _, err := v(ctx, Input{Choice: "9"}); !errors.Is(err, domain.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed for unknown choice, got %v", err)
	}

	// Typed text matches a value or a label.
	got, err = v(ctx, Input{Text: " простые "})
	if err != nil || got != "2" {
		t.Errorf("expected typed label to map to 2, got %q, %v", got, err)
	}
	got, err = v(ctx, Input{Text: "1"})
	if err != nil || got != "1" {
		t.Errorf("expected typed value 1, got %q, %v", got, err)
	}
	if _, err := v(ctx, Input{Text: ""}); !errors.Is(err, domain.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed for empty text, got %v", err)
	}

	boom := errors.New("db")
	if _, err := ChoiceFrom(func(context.Context) ([]Option, error) { return nil, boom }, "x")(ctx, Input{Choice: "1"}); !errors.Is(err, boom) {
		t.Errorf("expected options error, got %v", err)
	}
}

func TestOneOf(t *testing.T) {
	parse := func(s string) (string, error) {
		if strings.EqualFold(s, "yes") {
			return "yes", nil
		}
		return "", domain.ErrInvalidArgument
	}
	v := OneOf(parse, "yes or no")
	got, err := v(context.Background(), Input{Text: "YES"})
	if err != nil || got != "yes" {
		t.Fatalf("expected yes, got %q, %v", got, err)
	}
	if _, err := v(context.Background(), Input{Text: "maybe"}); !errors.Is(err, domain.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}
