package pagination

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Params is a page-number window taken from ?page=&limit=.
type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the list envelope returned by paginated endpoints.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// MaxPage bounds page and limit so Offset stays far from int overflow.
const MaxPage = 1 << 20

// FromQuery parses page and limit. Invalid or missing values fall back to
// page 1 and defaultLimit; limit is capped at maxLimit and page at MaxPage.
func FromQuery(c *gin.Context, defaultLimit, maxLimit int) Params {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	page = min(page, MaxPage)
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if maxLimit <= 0 || maxLimit > MaxPage {
		maxLimit = MaxPage
	}
	limit = min(limit, maxLimit)
	return Params{Page: page, Limit: limit}
}

// New builds the envelope, deriving next/previous links from the request URL.
func New[T any](c *gin.Context, p Params, total int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	out := Page[T]{Count: total, Results: results}

	if int64(p.Page*p.Limit) < total {
		next := pageURL(c, p.Page+1)
		out.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1)
		out.Previous = &prev
	}
	return out
}

func pageURL(c *gin.Context, page int) string {
	u := url.URL{
		Scheme: "http",
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	q := c.Request.URL.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
