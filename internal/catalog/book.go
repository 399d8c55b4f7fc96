package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMissingField is wrapped by decode errors for absent or null required fields.
var ErrMissingField = errors.New("missing required field")

// Book mirrors a record served by /books.
type Book struct {
	ID           int
	Title        string
	Author       string
	Publisher    string
	Categories   string
	LastCheckout *Checkout
}

// Checkout is the checkout sub-state of a book. The server stamps At.
type Checkout struct {
	By string
	At time.Time
}

// NewBook carries the fields a client supplies when creating a book.
type NewBook struct {
	Author     string `json:"author"`
	Title      string `json:"title"`
	Categories string `json:"categories"`
	Publisher  string `json:"publisher"`
}

// Available reports whether the book has no recorded checkout.
func (b Book) Available() bool {
	return b.LastCheckout == nil
}

// Clone returns a copy of b that shares no pointers with it.
func (b Book) Clone() Book {
	if b.LastCheckout != nil {
		c := *b.LastCheckout
		b.LastCheckout = &c
	}
	return b
}

type wireBook struct {
	ID               *int                `json:"id"`
	Title            *string             `json:"title"`
	Author           *string             `json:"author"`
	Publisher        *string             `json:"publisher"`
	Categories       *string             `json:"categories"`
	LastCheckedOut   jsoniter.RawMessage `json:"lastCheckedOut"`
	LastCheckedOutBy jsoniter.RawMessage `json:"lastCheckedOutBy"`
}

func (w wireBook) missing() []string {
	var fields []string
	if w.ID == nil {
		fields = append(fields, "id")
	}
	if w.Title == nil {
		fields = append(fields, "title")
	}
	if w.Author == nil {
		fields = append(fields, "author")
	}
	if w.Publisher == nil {
		fields = append(fields, "publisher")
	}
	if w.Categories == nil {
		fields = append(fields, "categories")
	}
	return fields
}

// UnmarshalJSON rejects the whole record when a required field is missing or
// mistyped. The checkout fields are lenient: anything unusable reads as absent,
// and a checkout is only recorded when both name and timestamp resolve.
func (b *Book) UnmarshalJSON(data []byte) error {
	var w wireBook
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode book: %w", err)
	}
	if missing := w.missing(); len(missing) > 0 {
		return fmt.Errorf("decode book: %w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	*b = Book{
		ID:           *w.ID,
		Title:        *w.Title,
		Author:       *w.Author,
		Publisher:    *w.Publisher,
		Categories:   *w.Categories,
		LastCheckout: decodeCheckout(w.LastCheckedOutBy, w.LastCheckedOut),
	}
	return nil
}

// MarshalJSON writes the wire shape; an available book omits both checkout fields.
func (b Book) MarshalJSON() ([]byte, error) {
	out := struct {
		ID               int    `json:"id"`
		Title            string `json:"title"`
		Author           string `json:"author"`
		Publisher        string `json:"publisher"`
		Categories       string `json:"categories"`
		LastCheckedOut   string `json:"lastCheckedOut,omitempty"`
		LastCheckedOutBy string `json:"lastCheckedOutBy,omitempty"`
	}{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Publisher:  b.Publisher,
		Categories: b.Categories,
	}
	if b.LastCheckout != nil {
		out.LastCheckedOut = FormatTimestamp(b.LastCheckout.At)
		out.LastCheckedOutBy = b.LastCheckout.By
	}
	return json.Marshal(out)
}

func decodeCheckout(rawBy, rawAt jsoniter.RawMessage) *Checkout {
	by, ok := optionalString(rawBy)
	if !ok {
		return nil
	}
	stamp, ok := optionalString(rawAt)
	if !ok {
		return nil
	}
	at, err := ParseTimestamp(stamp)
	if err != nil {
		return nil
	}
	return &Checkout{By: by, At: at}
}

func optionalString(raw jsoniter.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	if strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}
