package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultTake = 10
	maxTake     = 50
)

// Page is the query-level paging contract: 1-based page, take capped at
// 50, ASC or DESC ordering by creation time.
type Page struct {
	Page int
	Take int
	Desc bool
}

func FromQuery(c *gin.Context) Page {
	p := Page{Page: 1, Take: defaultTake}

	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			p.Page = v
		}
	}
	if raw := c.Query("take"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			p.Take = v
			if p.Take > maxTake {
				p.Take = maxTake
			}
		}
	}
	if strings.EqualFold(c.Query("order"), "desc") {
		p.Desc = true
	}

	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Take
}
