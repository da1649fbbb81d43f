package dateformat

import (
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kst = time.FixedZone("KST", 9*60*60)

type stamp struct{ t time.Time }

func (s stamp) AsTime() time.Time { return s.t }

func TestFormatter_Korean(t *testing.T) {
	f := New("ko-KR", kst)
	afternoon := time.Date(2024, 1, 15, 15, 4, 0, 0, kst)
	morning := time.Date(2024, 1, 15, 9, 5, 0, 0, kst)

	assert.Equal(t, "2024. 01. 15.", f.Date(afternoon))
	assert.Equal(t, "2024. 01. 15. 오후 03:04", f.DateTime(afternoon))
	assert.Equal(t, "2024. 01. 15. 오전 09:05", f.DateTime(morning))
	assert.Equal(t, "2024. 01. 15. 오후 12:00", f.DateTime(time.Date(2024, 1, 15, 12, 0, 0, 0, kst)))
	assert.Equal(t, "ko-KR", f.Locale())
}

func TestFormatter_InputKinds(t *testing.T) {
	f := New("ko-KR", kst)
	ts := time.Date(2024, 1, 15, 6, 4, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   any
		want string
	}{
		{"time", ts, "2024. 01. 15. 오후 03:04"},
		{"pointer", &ts, "2024. 01. 15. 오후 03:04"},
		{"millis int64", ts.UnixMilli(), "2024. 01. 15. 오후 03:04"},
		{"millis float", float64(ts.UnixMilli()), "2024. 01. 15. 오후 03:04"},
		{"millis int", int(ts.UnixMilli()), "2024. 01. 15. 오후 03:04"},
		{"rfc3339", "2024-01-15T06:04:00Z", "2024. 01. 15. 오후 03:04"},
		{"rfc3339 offset", "2024-01-15T15:04:00+09:00", "2024. 01. 15. 오후 03:04"},
		{"local wall time", "2024-01-15T10:30:00", "2024. 01. 15. 오전 10:30"},
		{"space separated", "2024-01-15 10:30", "2024. 01. 15. 오전 10:30"},
		{"as timer", stamp{ts}, "2024. 01. 15. 오후 03:04"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.DateTime(tc.in))
		})
	}
}

func TestFormatter_Placeholder(t *testing.T) {
	f := New("ko-KR", kst)
	var nilTime *time.Time

	for _, in := range []any{
		nil,
		"",
		"   ",
		"not a date",
		"2024-13-45",
		0,
		int64(0),
		math.NaN(),
		math.Inf(1),
		9e15,
		time.Time{},
		nilTime,
		struct{}{},
		[]int{1},
	} {
		assert.Equal(t, Placeholder, f.Date(in), "%#v", in)
		assert.Equal(t, Placeholder, f.DateTime(in), "%#v", in)
	}
}

func TestFormatter_DateOnlyIsUTCMidnight(t *testing.T) {
	east := New("en-US", kst)
	west := New("en-US", time.FixedZone("EST", -5*60*60))

	assert.Equal(t, "01/15/2024", east.Date("2024-01-15"))
	assert.Equal(t, "01/14/2024", west.Date("2024-01-15"))
}

func TestFormatter_Locales(t *testing.T) {
	ts := time.Date(2024, 3, 7, 18, 9, 0, 0, time.UTC)

	cases := []struct {
		locale   string
		resolved string
		date     string
		dateTime string
	}{
		{"en-US", "en-US", "03/07/2024", "03/07/2024, 06:09 PM"},
		{"en-GB", "en-GB", "07/03/2024", "07/03/2024, 18:09"},
		{"ja-JP", "ja-JP", "2024/03/07", "2024/03/07 18:09"},
		{"zh-CN", "zh-CN", "2024/03/07", "2024/03/07 18:09"},
		{"de-DE", "de-DE", "07.03.2024", "07.03.2024, 18:09"},
		{"de", "de-DE", "07.03.2024", "07.03.2024, 18:09"},
		{"ko", "ko-KR", "2024. 03. 07.", "2024. 03. 07. 오후 06:09"},
		{"!!", "ko-KR", "2024. 03. 07.", "2024. 03. 07. 오후 06:09"},
		{"", "ko-KR", "2024. 03. 07.", "2024. 03. 07. 오후 06:09"},
	}
	for _, tc := range cases {
		t.Run(tc.locale, func(t *testing.T) {
			f := New(tc.locale, time.UTC)
			assert.Equal(t, tc.resolved, f.Locale())
			assert.Equal(t, tc.date, f.Date(ts))
			assert.Equal(t, tc.dateTime, f.DateTime(ts))
		})
	}
}

func TestFormatter_WithLocation(t *testing.T) {
	f := New("ja-JP", time.UTC).WithLocation(kst)
	assert.Equal(t, kst, f.Location())
	assert.Equal(t, "2024/01/16 03:00", f.DateTime(time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.UTC, f.WithLocation(nil).Location())
}

func TestPackageDefaults(t *testing.T) {
	ts := time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "2024. 01. 15.", FormatDate(ts))
	assert.Equal(t, "2024. 01. 15. 오후 12:00", FormatDateTime(ts))
	assert.Equal(t, Placeholder, FormatDate(nil))
	assert.Equal(t, Placeholder, FormatDateTime("garbage"))
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2024-01-15", kst)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got.UTC())

	local, err := ParseTime("2024-01-15T08:00:00", kst)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), local.UTC())

	_, err = ParseTime("yesterday", kst)
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestForRequest(t *testing.T) {
	def := New("ko-KR", kst)

	r := httptest.NewRequest("GET", "/v1/orders?locale=en-GB", nil)
	r.Header.Set("Accept-Language", "ja-JP")
	assert.Equal(t, "en-GB", ForRequest(r, def).Locale())

	r = httptest.NewRequest("GET", "/v1/orders", nil)
	r.Header.Set("Accept-Language", "fr-FR;q=0.9, ja;q=0.8")
	got := ForRequest(r, def)
	assert.Equal(t, "ja-JP", got.Locale())
	assert.Equal(t, kst, got.Location())

	r = httptest.NewRequest("GET", "/v1/orders", nil)
	r.Header.Set("Accept-Language", "fr-FR")
	assert.Same(t, def, ForRequest(r, def))

	r = httptest.NewRequest("GET", "/v1/orders", nil)
	assert.Same(t, def, ForRequest(r, def))
}
