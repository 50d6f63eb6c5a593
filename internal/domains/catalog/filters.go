package catalog

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================
// WHERE BUILDER
// ============================================================

// Where gom các điều kiện AND và args, đánh số placeholder $1..$n theo thứ tự thêm vào
type Where struct {
	clauses []string
	args    []interface{}
}

// Arg thêm một arg và trả về placeholder của nó
func (w *Where) Arg(v interface{}) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

// Add thêm clause, mỗi "?" được thay bằng placeholder của arg tương ứng
func (w *Where) Add(clause string, args ...interface{}) {
	var b strings.Builder
	i := 0
	for _, r := range clause {
		if r == '?' && i < len(args) {
			b.WriteString(w.Arg(args[i]))
			i++
			continue
		}
		b.WriteRune(r)
	}
	w.clauses = append(w.clauses, b.String())
}

// SQL trả về "WHERE a AND b", hoặc "" nếu không có điều kiện
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *Where) Args() []interface{} {
	return w.args
}

// ============================================================
// FILTER REGISTRY
// ============================================================

type FilterKind int

const (
	// FilterExact: cột của products so khớp một trong các giá trị
	FilterExact FilterKind = iota + 1
	// FilterAttributeSlugSet: product có ít nhất một attribute value thuộc tập slug
	FilterAttributeSlugSet
	// FilterCallback: điều kiện tùy biến
	FilterCallback
)

// Filter mô tả cách một key trong filter[...] được dịch sang SQL
type Filter struct {
	Kind FilterKind

	// Exact: cột products (đã whitelist) và hàm chuẩn hóa giá trị
	Column    string
	Normalize func(string) (string, error)

	// AttributeSlugSet: slug của attribute giới hạn phạm vi; rỗng = mọi attribute
	Attribute string

	// Callback
	Apply func(w *Where, values []string) error
}

// Registry là mapping đóng từ filter key sang Filter, build một lần lúc khởi động
type Registry struct {
	filters map[string]Filter
	// dynamicAttributes: key lạ có dạng slug được hiểu là slug của attribute
	dynamicAttributes bool
}

var (
	attributeSlugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

	exactColumns = map[string]bool{
		"p.status":      true,
		"p.is_featured": true,
	}
)

// DefaultRegistry là bộ filter của storefront
func DefaultRegistry() *Registry {
	return &Registry{
		dynamicAttributes: true,
		filters: map[string]Filter{
			"status": {
				Kind:   FilterExact,
				Column: "p.status",
				Normalize: func(v string) (string, error) {
					switch s := ProductStatus(strings.ToLower(v)); s {
					case ProductStatusDraft, ProductStatusActive, ProductStatusArchived:
						return string(s), nil
					}
					return "", fmt.Errorf("unknown status %q", v)
				},
			},
			"featured": {
				Kind:      FilterExact,
				Column:    "p.is_featured",
				Normalize: normalizeBool,
			},
			"attributes": {
				Kind: FilterAttributeSlugSet,
			},
			"price_min": {
				Kind: FilterCallback,
				Apply: func(w *Where, values []string) error {
					bound, err := decimal.NewFromString(values[0])
					if err != nil {
						return err
					}
					w.Add("p.base_price >= ?", bound)
					return nil
				},
			},
			"price_max": {
				Kind: FilterCallback,
				Apply: func(w *Where, values []string) error {
					bound, err := decimal.NewFromString(values[0])
					if err != nil {
						return err
					}
					w.Add("p.base_price <= ?", bound)
					return nil
				},
			},
			"in_stock": {
				Kind: FilterCallback,
				Apply: func(w *Where, values []string) error {
					v, err := normalizeBool(values[0])
					if err != nil {
						return err
					}
					clause := `EXISTS (SELECT 1 FROM variants v WHERE v.product_id = p.id AND v.quantity > 0 AND v.is_orderable)`
					if v == "false" {
						clause = "NOT " + clause
					}
					w.Add(clause)
					return nil
				},
			},
		},
	}
}

// Validate chạy lúc startup, registry sai thì không start server
func (r *Registry) Validate() error {
	for key, f := range r.filters {
		if key == "" {
			return fmt.Errorf("filter registry: empty key")
		}
		switch f.Kind {
		case FilterExact:
			if !exactColumns[f.Column] {
				return fmt.Errorf("filter registry: %s uses non-whitelisted column %q", key, f.Column)
			}
		case FilterAttributeSlugSet:
			if f.Attribute != "" && !attributeSlugPattern.MatchString(f.Attribute) {
				return fmt.Errorf("filter registry: %s has invalid attribute slug %q", key, f.Attribute)
			}
		case FilterCallback:
			if f.Apply == nil {
				return fmt.Errorf("filter registry: %s has no callback", key)
			}
		default:
			return fmt.Errorf("filter registry: %s has unknown kind %d", key, f.Kind)
		}
	}
	return nil
}

// Lookup trả về Filter cho key, kể cả filter attribute động (filter[metal]=...)
func (r *Registry) Lookup(key string) (Filter, bool) {
	if f, ok := r.filters[key]; ok {
		return f, true
	}
	if r.dynamicAttributes && attributeSlugPattern.MatchString(key) {
		return Filter{Kind: FilterAttributeSlugSet, Attribute: key}, true
	}
	return Filter{}, false
}

func normalizeBool(v string) (string, error) {
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(b), nil
}

// ============================================================
// APPLIED FILTERS → SQL
// ============================================================

// AppliedFilter là một filter key kèm các giá trị (OR trong cùng key)
type AppliedFilter struct {
	Key    string
	Values []string
	filter Filter
}

// Scope giới hạn tập product trước khi áp filter
type Scope struct {
	CategoryID   *uuid.UUID
	CollectionID *uuid.UUID
	FeaturedOnly bool
}

// BuildProductWhere dịch scope + filters (AND giữa các key) sang điều kiện trên alias p
func BuildProductWhere(scope Scope, filters []AppliedFilter) (*Where, error) {
	w := &Where{}

	if scope.CategoryID != nil {
		w.Add(`EXISTS (SELECT 1 FROM category_products cp WHERE cp.product_id = p.id AND cp.category_id = ?)`, *scope.CategoryID)
	}
	if scope.CollectionID != nil {
		w.Add(`EXISTS (SELECT 1 FROM collection_products clp WHERE clp.product_id = p.id AND clp.collection_id = ?)`, *scope.CollectionID)
	}
	if scope.FeaturedOnly {
		w.Add("p.is_featured = TRUE")
	}

	for _, af := range filters {
		if err := applyFilter(w, af); err != nil {
			return nil, err
		}
	}

	return w, nil
}

func applyFilter(w *Where, af AppliedFilter) error {
	f := af.filter
	switch f.Kind {
	case FilterExact:
		values := make([]string, 0, len(af.Values))
		for _, v := range af.Values {
			n := v
			if f.Normalize != nil {
				var err error
				if n, err = f.Normalize(v); err != nil {
					return ErrInvalidFilterValue(af.Key)
				}
			}
			values = append(values, n)
		}
		w.Add(f.Column+"::text = ANY(?)", values)

	case FilterAttributeSlugSet:
		if f.Attribute == "" {
			w.Add(`EXISTS (SELECT 1 FROM product_attribute_values pav
				JOIN attribute_values av ON av.id = pav.attribute_value_id
				WHERE pav.product_id = p.id AND av.slug = ANY(?))`, af.Values)
		} else {
			w.Add(`EXISTS (SELECT 1 FROM product_attribute_values pav
				JOIN attribute_values av ON av.id = pav.attribute_value_id
				JOIN attributes a ON a.id = av.attribute_id
				WHERE pav.product_id = p.id AND a.slug = ? AND av.slug = ANY(?))`, f.Attribute, af.Values)
		}

	case FilterCallback:
		if err := f.Apply(w, af.Values); err != nil {
			return ErrInvalidFilterValue(af.Key)
		}

	default:
		return ErrUnknownFilter(af.Key)
	}
	return nil
}

// ============================================================
// SORTS & INCLUDES
// ============================================================

type Sort struct {
	Column string
	Desc   bool
}

var sortColumns = map[string]string{
	"name":       "p.name",
	"base_price": "p.base_price",
	"created_at": "p.created_at",
}

// OrderBy build ORDER BY, luôn kèm p.id để phân trang ổn định
func OrderBy(sorts []Sort, random bool) string {
	if random {
		return "ORDER BY random()"
	}
	parts := make([]string, 0, len(sorts)+1)
	for _, s := range sorts {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, s.Column+" "+dir)
	}
	if len(parts) == 0 {
		parts = append(parts, "p.created_at DESC")
	}
	parts = append(parts, "p.id ASC")
	return "ORDER BY " + strings.Join(parts, ", ")
}

const (
	IncludeVariants        = "variants"
	IncludeCategories      = "categories"
	IncludeCollections     = "collections"
	IncludeAttributeValues = "attribute_values"
	IncludeChildren        = "children"
)

// IncludeSet là các relation được eager-load
type IncludeSet map[string]bool

func (s IncludeSet) Has(name string) bool { return s[name] }

// ParseIncludes tách "a,b" và chỉ chấp nhận các include trong allowed
func ParseIncludes(raw string, allowed []string) (IncludeSet, error) {
	set := IncludeSet{}
	if strings.TrimSpace(raw) == "" {
		return set, nil
	}
	ok := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		ok[a] = true
	}
	for _, name := range splitCSV(raw) {
		if !ok[name] {
			return nil, ErrInvalidInclude(name)
		}
		set[name] = true
	}
	return set, nil
}

// ParseSorts: "name,-base_price"
func ParseSorts(raw string) ([]Sort, error) {
	var sorts []Sort
	for _, field := range splitCSV(raw) {
		desc := strings.HasPrefix(field, "-")
		col, ok := sortColumns[strings.TrimPrefix(field, "-")]
		if !ok {
			return nil, ErrInvalidSort(field)
		}
		sorts = append(sorts, Sort{Column: col, Desc: desc})
	}
	return sorts, nil
}

// ============================================================
// LIST QUERY
// ============================================================

const MaxPerPage = 100

// MaxPage giữ (page-1)*per_page trong int32, OFFSET không thể tràn số
const MaxPage = math.MaxInt32 / MaxPerPage

// ListOptions là hợp đồng của từng endpoint
type ListOptions struct {
	// AllowedFilters = nil: mọi key registry chấp nhận
	AllowedFilters  []string
	AllowedIncludes []string
	AllowSorts      bool
	DefaultPerPage  int
}

// ListQuery là query string đã được parse + validate
type ListQuery struct {
	Filters  []AppliedFilter
	Sorts    []Sort
	Includes IncludeSet
	Page     int
	PerPage  int
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

// ParseListQuery đọc filter[key]=a,b / sort / include / page / per_page.
// Các param khác (guest_token, ...) bị bỏ qua.
func (r *Registry) ParseListQuery(values url.Values, opts ListOptions) (ListQuery, error) {
	q := ListQuery{
		Page:    1,
		PerPage: opts.DefaultPerPage,
	}

	var allowed map[string]bool
	if opts.AllowedFilters != nil {
		allowed = make(map[string]bool, len(opts.AllowedFilters))
		for _, k := range opts.AllowedFilters {
			allowed[k] = true
		}
	}

	// Sort key để thứ tự điều kiện SQL ổn định
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, param := range keys {
		if !strings.HasPrefix(param, "filter[") || !strings.HasSuffix(param, "]") {
			continue
		}
		key := strings.TrimSuffix(strings.TrimPrefix(param, "filter["), "]")

		if allowed != nil && !allowed[key] {
			return ListQuery{}, ErrUnknownFilter(key)
		}
		f, ok := r.Lookup(key)
		if !ok {
			return ListQuery{}, ErrUnknownFilter(key)
		}

		var vals []string
		for _, raw := range values[param] {
			vals = append(vals, splitCSV(raw)...)
		}
		if len(vals) == 0 {
			continue
		}
		q.Filters = append(q.Filters, AppliedFilter{Key: key, Values: vals, filter: f})
	}

	if raw := values.Get("sort"); raw != "" {
		if !opts.AllowSorts {
			return ListQuery{}, ErrInvalidSort(raw)
		}
		sorts, err := ParseSorts(raw)
		if err != nil {
			return ListQuery{}, err
		}
		q.Sorts = sorts
	}

	includes, err := ParseIncludes(values.Get("include"), opts.AllowedIncludes)
	if err != nil {
		return ListQuery{}, err
	}
	q.Includes = includes

	if p, err := strconv.Atoi(values.Get("page")); err == nil && p > 0 {
		if p > MaxPage {
			return ListQuery{}, ErrInvalidPage(values.Get("page"))
		}
		q.Page = p
	}
	if pp, err := strconv.Atoi(values.Get("per_page")); err == nil && pp > 0 {
		q.PerPage = pp
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	if q.PerPage <= 0 {
		q.PerPage = 15
	}

	return q, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
