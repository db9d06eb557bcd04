package menu

import (
	"fmt"
	"strconv"
	"strings"

	"telegram-car-rental/internal/domain"
)

// Telegram rejects callback data longer than 64 bytes.
const maxPayloadLen = 64

const (
	navPrefix    = "m"
	choicePrefix = "c:"
	sep          = ":"
	navFields    = 7
)

// Encode packs r into callback data of the form
// m:<menu>:<level>:<category>:<page>:<product>:<user>. Absent ids are left
// empty so an id of 0 survives the round trip.
func Encode(r NavigationRequest) (string, error) {
	if r.Menu == "" || strings.Contains(r.Menu, sep) {
		return "", fmt.Errorf("encode payload: menu %q: %w", r.Menu, domain.ErrInvalidArgument)
	}
	var b strings.Builder
	b.Grow(32)
	b.WriteString(navPrefix)
	b.WriteString(sep)
	b.WriteString(r.Menu)
	b.WriteString(sep)
	b.WriteString(strconv.Itoa(r.Level))
	b.WriteString(sep)
	writeID(&b, r.Category)
	b.WriteString(sep)
	b.WriteString(strconv.Itoa(r.Page))
	b.WriteString(sep)
	writeID(&b, r.ProductID)
	b.WriteString(sep)
	writeID(&b, r.UserID)

	if b.Len() > maxPayloadLen {
		return "", fmt.Errorf("encode payload: %d bytes: %w", b.Len(), domain.ErrInvalidArgument)
	}
	return b.String(), nil
}

func writeID(b *strings.Builder, id *int64) {
	if id != nil {
		b.WriteString(strconv.FormatInt(*id, 10))
	}
}

// Decode is the inverse of Encode.
func Decode(data string) (NavigationRequest, error) {
	parts := strings.Split(data, sep)
	if len(parts) != navFields || parts[0] != navPrefix || parts[1] == "" {
		return NavigationRequest{}, fmt.Errorf("decode payload %q: %w", data, domain.ErrInvalidArgument)
	}
	var (
		r   = NavigationRequest{Menu: parts[1]}
		err error
	)
	if r.Level, err = strconv.Atoi(parts[2]); err != nil {
		return NavigationRequest{}, fmt.Errorf("decode payload level: %w", domain.ErrInvalidArgument)
	}
	if r.Category, err = parseID(parts[3]); err != nil {
		return NavigationRequest{}, err
	}
	if r.Page, err = strconv.Atoi(parts[4]); err != nil {
		return NavigationRequest{}, fmt.Errorf("decode payload page: %w", domain.ErrInvalidArgument)
	}
	if r.ProductID, err = parseID(parts[5]); err != nil {
		return NavigationRequest{}, err
	}
	if r.UserID, err = parseID(parts[6]); err != nil {
		return NavigationRequest{}, err
	}
	return r, nil
}

func parseID(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode payload id %q: %w", s, domain.ErrInvalidArgument)
	}
	return &v, nil
}

// IsPayload reports whether data looks like an encoded NavigationRequest.
func IsPayload(data string) bool { return strings.HasPrefix(data, navPrefix+sep) }

// ChoicePayload is the callback data of a form choice button.
func ChoicePayload(value string) string { return choicePrefix + value }

// ParseChoice extracts the value of a form choice button.
func ParseChoice(data string) (string, bool) {
	if !strings.HasPrefix(data, choicePrefix) {
		return "", false
	}
	return strings.TrimPrefix(data, choicePrefix), true
}
