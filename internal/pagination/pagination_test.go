package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func pageFor(t *testing.T, rawQuery string) Page {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return FromQuery(c)
}

func TestFromQuery(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  Page
	}{
		{"defaults", "", Page{Page: 1, Take: 10}},
		{"explicit", "page=3&take=25&order=desc", Page{Page: 3, Take: 25, Desc: true}},
		{"take capped", "take=500", Page{Page: 1, Take: 50}},
		{"order case-insensitive", "order=DESC", Page{Page: 1, Take: 10, Desc: true}},
		{"garbage ignored", "page=zero&take=-4&order=sideways", Page{Page: 1, Take: 10}},
		{"zero page ignored", "page=0", Page{Page: 1, Take: 10}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pageFor(t, tc.query); got != tc.want {
				t.Errorf("FromQuery(%q) = %+v, want %+v", tc.query, got, tc.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := (Page{Page: 1, Take: 10}).Offset(); got != 0 {
		t.Errorf("first page offset = %d, want 0", got)
	}
	if got := (Page{Page: 4, Take: 25}).Offset(); got != 75 {
		t.Errorf("offset = %d, want 75", got)
	}
}
