package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBook(t *testing.T, raw string) (Book, error) {
	t.Helper()
	var b Book
	err := b.UnmarshalJSON([]byte(raw))
	return b, err
}

func TestBookDecodeCheckedOut(t *testing.T) {
	b, err := decodeBook(t, `{"id": 2, "title": "Good to Great", "author": "Jim Collins",
		"publisher": "HarperBusiness", "categories": "business",
		"lastCheckedOut": "2018-02-24 18:39:43 UTC", "lastCheckedOutBy": "Ada"}`)
	require.NoError(t, err)

	assert.Equal(t, 2, b.ID)
	assert.Equal(t, "Good to Great", b.Title)
	assert.Equal(t, "Jim Collins", b.Author)
	assert.Equal(t, "HarperBusiness", b.Publisher)
	assert.Equal(t, "business", b.Categories)
	require.NotNil(t, b.LastCheckout)
	assert.False(t, b.Available())
	assert.Equal(t, "Ada", b.LastCheckout.By)
	assert.True(t, b.LastCheckout.At.Equal(time.Date(2018, time.February, 24, 18, 39, 43, 0, time.UTC)))
}

func TestBookDecodeRejectsMissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"title":      `{"id": 1, "author": "A", "publisher": "P", "categories": "c"}`,
		"id":         `{"title": "T", "author": "A", "publisher": "P", "categories": "c"}`,
		"categories": `{"id": 1, "title": "T", "author": "A", "publisher": "P", "categories": null}`,
	}
	for field, raw := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := decodeBook(t, raw)
			require.ErrorIs(t, err, ErrMissingField)
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestBookDecodeRejectsMistypedRequiredFields(t *testing.T) {
	_, err := decodeBook(t, `{"id": "1", "title": "T", "author": "A", "publisher": "P", "categories": "c"}`)
	assert.Error(t, err)

	_, err = decodeBook(t, `{"id": 1, "title": 5, "author": "A", "publisher": "P", "categories": "c"}`)
	assert.Error(t, err)

	_, err = decodeBook(t, `[1, 2, 3]`)
	assert.Error(t, err)
}

func TestBookDecodeOptionalFieldsAreLenient(t *testing.T) {
	cases := map[string]string{
		"both absent":     ``,
		"both null":       `, "lastCheckedOut": null, "lastCheckedOutBy": null`,
		"name only":       `, "lastCheckedOutBy": "Ada"`,
		"timestamp only":  `, "lastCheckedOut": "2018-02-24 18:39:43 UTC"`,
		"mistyped name":   `, "lastCheckedOut": "2018-02-24 18:39:43 UTC", "lastCheckedOutBy": 42`,
		"malformed stamp": `, "lastCheckedOut": "yesterday", "lastCheckedOutBy": "Ada"`,
		"mistyped stamp":  `, "lastCheckedOut": 1519497583, "lastCheckedOutBy": "Ada"`,
		"blank name":      `, "lastCheckedOut": "2018-02-24 18:39:43 UTC", "lastCheckedOutBy": "  "`,
	}
	for name, extra := range cases {
		t.Run(name, func(t *testing.T) {
			b, err := decodeBook(t, `{"id": 1, "title": "T", "author": "A", "publisher": "P", "categories": "c"`+extra+`}`)
			require.NoError(t, err)
			assert.True(t, b.Available())
			assert.Nil(t, b.LastCheckout)
		})
	}
}

func TestBookDecodeIgnoresUnknownFields(t *testing.T) {
	b, err := decodeBook(t, `{"id": 1, "title": "T", "author": "A", "publisher": "P", "categories": "c", "url": "/books/1"}`)
	require.NoError(t, err)
	assert.Equal(t, 1, b.ID)
}

func TestBookEncodeRoundTrip(t *testing.T) {
	at := time.Date(2026, time.October, 14, 9, 30, 15, 0, time.UTC)
	in := Book{ID: 9, Title: "T", Author: "A", Publisher: "P", Categories: "c", LastCheckout: &Checkout{By: "Grace", At: at}}

	data, err := in.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lastCheckedOut":"2026-10-14 09:30:15 UTC"`)
	assert.Contains(t, string(data), `"lastCheckedOutBy":"Grace"`)

	out, err := decodeBook(t, string(data))
	require.NoError(t, err)
	require.NotNil(t, out.LastCheckout)
	assert.True(t, out.LastCheckout.At.Equal(at))
	assert.Equal(t, "Grace", out.LastCheckout.By)
}

func TestBookEncodeAvailableOmitsCheckout(t *testing.T) {
	data, err := Book{ID: 1, Title: "T", Author: "A", Publisher: "P", Categories: "c"}.MarshalJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "lastCheckedOut")
}

func TestBookCloneIsIndependent(t *testing.T) {
	orig := Book{ID: 1, LastCheckout: &Checkout{By: "Ada"}}
	cp := orig.Clone()
	cp.LastCheckout.By = "Grace"
	assert.Equal(t, "Ada", orig.LastCheckout.By)
}

func TestParseTimestampPinsKnownAbbreviations(t *testing.T) {
	got, err := ParseTimestamp("2018-02-24 18:39:43 EST")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2018, time.February, 24, 23, 39, 43, 0, time.UTC)), "got %v", got)
}

func TestParseTimestampFallbackLayouts(t *testing.T) {
	want := time.Date(2018, time.February, 24, 18, 39, 43, 0, time.UTC)

	got, err := ParseTimestamp("2018-02-24 19:39:43 +0100")
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = ParseTimestamp("2018-02-24T18:39:43Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	_, err = ParseTimestamp("")
	assert.Error(t, err)
	_, err = ParseTimestamp("24/02/2018")
	assert.Error(t, err)
}

func TestFormatTimestampRoundTripsToTheSecond(t *testing.T) {
	at := time.Date(2020, time.July, 4, 12, 0, 1, 999, time.FixedZone("X", 3*3600))
	back, err := ParseTimestamp(FormatTimestamp(at))
	require.NoError(t, err)
	assert.True(t, back.Equal(at.Truncate(time.Second)))
}
