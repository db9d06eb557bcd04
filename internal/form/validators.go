package form

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MaxLen accepts text of at most n characters. Empty text is passed through
// to the length check and rejected only when min > 0.
func MaxLen(min, n int, message string) Validator {
	return func(_ context.Context, in Input) (string, error) {
		if utf8.RuneCountInString(in.Text) < min {
			return "", Reject(message)
		}
		if err := validate.Var(in.Text, "max="+strconv.Itoa(n)); err != nil {
			return "", Reject(message)
		}
		return in.Text, nil
	}
}

// TrimmedLen trims surrounding whitespace and accepts the result when it has
// between min and n characters. The trimmed text is stored.
func TrimmedLen(min, n int, message string) Validator {
	inner := MaxLen(min, n, message)
	return func(ctx context.Context, in Input) (string, error) {
		in.Text = strings.TrimSpace(in.Text)
		return inner(ctx, in)
	}
}

// Any accepts every text input as is.
func Any() Validator {
	return func(_ context.Context, in Input) (string, error) { return in.Text, nil }
}

// NonNegativeNumber accepts a decimal number in [0, max] with at most scale
// fractional digits. A comma is accepted as the decimal separator. The stored
// value is the canonical float form.
func NonNegativeNumber(max float64, scale int, message string) Validator {
	bounds := "gte=0,lte=" + strconv.FormatFloat(max, 'f', -1, 64)
	return func(_ context.Context, in Input) (string, error) {
		raw := strings.Replace(strings.TrimSpace(in.Text), ",", ".", 1)
		if err := validate.Var(raw, "required,numeric"); err != nil {
			return "", Reject(message)
		}
		if _, frac, ok := strings.Cut(raw, "."); ok && len(frac) > scale {
			return "", Reject(message)
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", Reject(message)
		}
		if err := validate.Var(f, bounds); err != nil {
			return "", Reject(message)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
}

// OneOf accepts text matching one of the values after parse normalises it.
func OneOf(parse func(string) (string, error), message string) Validator {
	return func(_ context.Context, in Input) (string, error) {
		v, err := parse(in.Text)
		if err != nil {
			return "", Reject(message)
		}
		return v, nil
	}
}

// ChoiceFrom accepts a choice whose value is listed by options. On steps that
// also take text, a typed value or label is matched case-insensitively.
func ChoiceFrom(options func(ctx context.Context) ([]Option, error), message string) Validator {
	return func(ctx context.Context, in Input) (string, error) {
		opts, err := options(ctx)
		if err != nil {
			return "", err
		}
		if in.Choice != "" {
			for _, o := range opts {
				if o.Value == in.Choice {
					return o.Value, nil
				}
			}
			return "", Reject(message)
		}
		typed := strings.TrimSpace(in.Text)
		for _, o := range opts {
			if typed != "" && (strings.EqualFold(o.Value, typed) || strings.EqualFold(o.Label, typed)) {
				return o.Value, nil
			}
		}
		return "", Reject(message)
	}
}

// Photo accepts a photo and stores its file id.
func Photo(message string) Validator {
	return func(_ context.Context, in Input) (string, error) {
		if in.PhotoID == "" {
			return "", Reject(message)
		}
		return in.PhotoID, nil
	}
}

// OwnContact accepts a contact that belongs to the sender and carries a valid
// phone number. The stored value is the number in E.164 form.
func OwnContact(message string) Validator {
	return func(_ context.Context, in Input) (string, error) {
		c := in.Contact
		if c == nil || c.UserID != in.SenderID {
			return "", Reject(message)
		}
		phone := NormalizePhone(c.Phone)
		if err := validate.Var(phone, "required,e164"); err != nil {
			return "", Reject(message)
		}
		return phone, nil
	}
}

// NormalizePhone strips separators and adds the leading plus Telegram omits.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "+" + b.String()
}
