package catalog

import (
	"fmt"
	"net/url"
	"testing"

	"storefront-backend/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var listingOpts = ListOptions{
	AllowedIncludes: ListingIncludes,
	AllowSorts:      true,
	DefaultPerPage:  ListingPerPage,
}

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return v
}

func TestDefaultRegistry_Validate(t *testing.T) {
	require.NoError(t, DefaultRegistry().Validate())

	cases := map[string]Filter{
		"bad column":  {Kind: FilterExact, Column: "p.secret"},
		"no callback": {Kind: FilterCallback},
		"bad attr":    {Kind: FilterAttributeSlugSet, Attribute: "Not A Slug"},
		"no kind":     {},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			r := &Registry{filters: map[string]Filter{"x": f}}
			assert.Error(t, r.Validate())
		})
	}
}

func TestParseListQuery_AttributeFilter(t *testing.T) {
	q, err := DefaultRegistry().ParseListQuery(mustQuery(t, "filter[metal]=platinum"), listingOpts)
	require.NoError(t, err)

	require.Len(t, q.Filters, 1)
	assert.Equal(t, "metal", q.Filters[0].Key)
	assert.Equal(t, []string{"platinum"}, q.Filters[0].Values)

	w, err := BuildProductWhere(Scope{}, q.Filters)
	require.NoError(t, err)

	assert.Contains(t, w.SQL(), "a.slug = $1 AND av.slug = ANY($2)")
	assert.Equal(t, []interface{}{"metal", []string{"platinum"}}, w.Args())
}

func TestParseListQuery_OrWithinKeyAndAcrossKeys(t *testing.T) {
	q, err := DefaultRegistry().ParseListQuery(
		mustQuery(t, "filter[metal]=gold,platinum&filter[attributes]=ruby"), listingOpts)
	require.NoError(t, err)
	require.Len(t, q.Filters, 2)

	// key được sort: attributes trước metal
	assert.Equal(t, "attributes", q.Filters[0].Key)
	assert.Equal(t, []string{"gold", "platinum"}, q.Filters[1].Values)

	categoryID := uuid.New()
	w, err := BuildProductWhere(Scope{CategoryID: &categoryID}, q.Filters)
	require.NoError(t, err)

	sql := w.SQL()
	assert.Contains(t, sql, "cp.category_id = $1")
	assert.Contains(t, sql, "av.slug = ANY($2)")
	assert.Contains(t, sql, "a.slug = $3 AND av.slug = ANY($4)")
	assert.Len(t, w.Args(), 4)
}

func TestParseListQuery_Rejections(t *testing.T) {
	r := DefaultRegistry()

	cases := []struct {
		name    string
		raw     string
		opts    ListOptions
		message string
	}{
		{"unknown key", "filter[Bad+Key]=x", listingOpts, "Unknown filter: Bad Key"},
		{"not allowed on endpoint", "filter[metal]=gold", ListOptions{AllowedFilters: []string{"status"}}, "Unknown filter: metal"},
		{"bad sort", "sort=price", listingOpts, "Requested sort(s) `price` is not allowed."},
		{"sort disabled", "sort=name", ListOptions{}, "Requested sort(s) `name` is not allowed."},
		{"bad include", "include=reviews", listingOpts, "Requested include(s) `reviews` are not allowed."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.ParseListQuery(mustQuery(t, tc.raw), tc.opts)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
			assert.Equal(t, tc.message, apperror.As(err).Message)
		})
	}
}

func TestParseListQuery_Pagination(t *testing.T) {
	r := DefaultRegistry()

	q, err := r.ParseListQuery(url.Values{}, listingOpts)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 24, q.PerPage)
	assert.Equal(t, 0, q.Offset())

	q, err = r.ParseListQuery(mustQuery(t, "page=3&per_page=500"), listingOpts)
	require.NoError(t, err)
	assert.Equal(t, MaxPerPage, q.PerPage)
	assert.Equal(t, 200, q.Offset())

	q, err = r.ParseListQuery(mustQuery(t, "page=-1&per_page=abc"), listingOpts)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 24, q.PerPage)

	q, err = r.ParseListQuery(mustQuery(t, fmt.Sprintf("page=%d&per_page=100", MaxPage)), listingOpts)
	require.NoError(t, err)
	assert.Positive(t, q.Offset())

	for _, page := range []string{fmt.Sprint(MaxPage + 1), "9223372036854775807"} {
		_, err = r.ParseListQuery(mustQuery(t, "page="+page), listingOpts)
		require.Error(t, err, page)
		assert.Equal(t, 422, apperror.HTTPStatus(err))
		assert.Equal(t, "INVALID_PAGE", apperror.As(err).Code)
	}
}

func TestBuildProductWhere_ExactAndCallbacks(t *testing.T) {
	r := DefaultRegistry()

	q, err := r.ParseListQuery(mustQuery(t, "filter[status]=ACTIVE&filter[price_min]=100.50&filter[in_stock]=false"), listingOpts)
	require.NoError(t, err)

	w, err := BuildProductWhere(Scope{FeaturedOnly: true}, q.Filters)
	require.NoError(t, err)

	sql := w.SQL()
	assert.Contains(t, sql, "p.is_featured = TRUE")
	assert.Contains(t, sql, "NOT EXISTS (SELECT 1 FROM variants v")
	assert.Contains(t, sql, "p.base_price >= $1")
	assert.Contains(t, sql, "p.status::text = ANY($2)")

	args := w.Args()
	require.Len(t, args, 2)
	assert.True(t, decimal.RequireFromString("100.50").Equal(args[0].(decimal.Decimal)))
	assert.Equal(t, []string{"active"}, args[1])
}

func TestBuildProductWhere_InvalidValue(t *testing.T) {
	q, err := DefaultRegistry().ParseListQuery(mustQuery(t, "filter[featured]=maybe"), listingOpts)
	require.NoError(t, err)

	_, err = BuildProductWhere(Scope{}, q.Filters)
	require.Error(t, err)
	assert.Equal(t, "Invalid value for filter: featured", apperror.As(err).Message)
}

func TestOrderBy(t *testing.T) {
	sorts, err := ParseSorts("-base_price,name")
	require.NoError(t, err)

	assert.Equal(t, "ORDER BY p.base_price DESC, p.name ASC, p.id ASC", OrderBy(sorts, false))
	assert.Equal(t, "ORDER BY p.created_at DESC, p.id ASC", OrderBy(nil, false))
	assert.Equal(t, "ORDER BY random()", OrderBy(sorts, true))
}

func TestWhere_EmptyAndPlaceholders(t *testing.T) {
	w := &Where{}
	assert.Equal(t, "", w.SQL())

	w.Add("a = ? AND b = ?", 1, 2)
	assert.Equal(t, "$3", w.Arg(3))
	assert.Equal(t, "WHERE a = $1 AND b = $2", w.SQL())
}
