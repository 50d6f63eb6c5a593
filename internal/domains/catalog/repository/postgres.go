package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront-backend/internal/domains/catalog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) catalog.Repository {
	return &postgresRepository{pool: pool}
}

const productColumns = `
	p.id, p.name, p.slug, p.description, p.status, p.is_featured,
	p.base_price, p.images, p.created_at, p.updated_at`

const categoryColumns = `c.id, c.parent_id, c.name, c.slug, c.description, c.image, c.position`

const collectionColumns = `col.id, col.parent_id, col.name, col.slug, col.description, col.hero_image, col.position, col.is_featured`

// ============================================================
// PRODUCTS
// ============================================================

func (r *postgresRepository) HasFeaturedProducts(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE is_featured = TRUE)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check featured products: %w", err)
	}
	return exists, nil
}

// ListProducts trả về trang product và tổng số product khớp điều kiện
func (r *postgresRepository) ListProducts(ctx context.Context, q catalog.ProductQuery) ([]catalog.Product, int, error) {
	where, err := catalog.BuildProductWhere(q.Scope, q.Filters)
	if err != nil {
		return nil, 0, err
	}

	// Step 1: Count
	var total int
	countQuery := `SELECT COUNT(*) FROM products p ` + where.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	if total == 0 {
		return []catalog.Product{}, 0, nil
	}

	// Step 2: Page
	limit := where.Arg(q.Limit)
	offset := where.Arg(q.Offset)
	listQuery := fmt.Sprintf(`SELECT %s FROM products p %s %s LIMIT %s OFFSET %s`,
		productColumns, where.SQL(), catalog.OrderBy(q.Sorts, q.Random), limit, offset)

	rows, err := r.pool.Query(ctx, listQuery, where.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]catalog.Product, 0, q.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

func (r *postgresRepository) FindProductBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.slug = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by slug: %w", err)
	}
	return p, nil
}

// LoadProductRelations: mỗi relation là một query WHERE product_id = ANY($1)
func (r *postgresRepository) LoadProductRelations(ctx context.Context, products []catalog.Product, includes catalog.IncludeSet) error {
	if len(products) == 0 || len(includes) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(products))
	index := make(map[uuid.UUID]int, len(products))
	for i := range products {
		ids[i] = products[i].ID
		index[products[i].ID] = i
	}

	if includes.Has(catalog.IncludeVariants) {
		if err := r.loadVariants(ctx, ids, products, index); err != nil {
			return err
		}
	}
	if includes.Has(catalog.IncludeCategories) {
		if err := r.loadCategories(ctx, ids, products, index); err != nil {
			return err
		}
	}
	if includes.Has(catalog.IncludeCollections) {
		if err := r.loadCollections(ctx, ids, products, index); err != nil {
			return err
		}
	}
	if includes.Has(catalog.IncludeAttributeValues) {
		if err := r.loadAttributeValues(ctx, ids, products, index); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresRepository) loadVariants(ctx context.Context, ids []uuid.UUID, products []catalog.Product, index map[uuid.UUID]int) error {
	query := `
		SELECT id, product_id, sku, quantity, is_orderable, size, metal_type, weight_grams, price
		FROM variants
		WHERE product_id = ANY($1)
		ORDER BY sku`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		v, err := ScanVariant(rows)
		if err != nil {
			return fmt.Errorf("failed to scan variant: %w", err)
		}
		i := index[v.ProductID]
		products[i].Variants = append(products[i].Variants, *v)
	}
	return rows.Err()
}

func (r *postgresRepository) loadCategories(ctx context.Context, ids []uuid.UUID, products []catalog.Product, index map[uuid.UUID]int) error {
	query := `
		SELECT cp.product_id, ` + categoryColumns + `
		FROM category_products cp
		JOIN categories c ON c.id = cp.category_id
		WHERE cp.product_id = ANY($1)
		ORDER BY c.position, c.name`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load product categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID uuid.UUID
		var c catalog.Category
		if err := rows.Scan(&productID, &c.ID, &c.ParentID, &c.Name, &c.Slug, &c.Description, &c.Image, &c.Position); err != nil {
			return fmt.Errorf("failed to scan product category: %w", err)
		}
		i := index[productID]
		products[i].Categories = append(products[i].Categories, c)
	}
	return rows.Err()
}

func (r *postgresRepository) loadCollections(ctx context.Context, ids []uuid.UUID, products []catalog.Product, index map[uuid.UUID]int) error {
	query := `
		SELECT clp.product_id, ` + collectionColumns + `
		FROM collection_products clp
		JOIN collections col ON col.id = clp.collection_id
		WHERE clp.product_id = ANY($1)
		ORDER BY col.position, col.name`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load product collections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID uuid.UUID
		var col catalog.Collection
		if err := rows.Scan(&productID, &col.ID, &col.ParentID, &col.Name, &col.Slug,
			&col.Description, &col.HeroImage, &col.Position, &col.IsFeatured); err != nil {
			return fmt.Errorf("failed to scan product collection: %w", err)
		}
		i := index[productID]
		products[i].Collections = append(products[i].Collections, col)
	}
	return rows.Err()
}

func (r *postgresRepository) loadAttributeValues(ctx context.Context, ids []uuid.UUID, products []catalog.Product, index map[uuid.UUID]int) error {
	query := `
		SELECT pav.product_id,
		       av.id, av.attribute_id, av.value, av.slug, av.hex_color, av.position,
		       a.id, a.name, a.slug, a.type, a.position
		FROM product_attribute_values pav
		JOIN attribute_values av ON av.id = pav.attribute_value_id
		JOIN attributes a ON a.id = av.attribute_id
		WHERE pav.product_id = ANY($1)
		ORDER BY a.position, av.position, av.value`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load attribute values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID uuid.UUID
		var av catalog.AttributeValue
		var a catalog.Attribute
		if err := rows.Scan(&productID,
			&av.ID, &av.AttributeID, &av.Value, &av.Slug, &av.HexColor, &av.Position,
			&a.ID, &a.Name, &a.Slug, &a.Type, &a.Position); err != nil {
			return fmt.Errorf("failed to scan attribute value: %w", err)
		}
		av.Attribute = &a
		i := index[productID]
		products[i].AttributeValues = append(products[i].AttributeValues, av)
	}
	return rows.Err()
}

// ============================================================
// FACETS
// ============================================================

// FacetRows chạy một aggregate query: tập product đã lọc (CTE) join sang
// attribute values, đếm DISTINCT product trong tập đó cho từng value.
// Value/attribute không xuất hiện trong tập lọc không có dòng nào.
func (r *postgresRepository) FacetRows(ctx context.Context, scope catalog.Scope, filters []catalog.AppliedFilter) ([]catalog.FacetRow, error) {
	where, err := catalog.BuildProductWhere(scope, filters)
	if err != nil {
		return nil, err
	}

	query := FacetQuery(where)

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to compute facets: %w", err)
	}
	defer rows.Close()

	var result []catalog.FacetRow
	for rows.Next() {
		var fr catalog.FacetRow
		if err := rows.Scan(
			&fr.AttributeID, &fr.AttributeName, &fr.AttributeSlug, &fr.AttributeType,
			&fr.ValueID, &fr.Value, &fr.ValueSlug, &fr.HexColor,
			&fr.ProductCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan facet row: %w", err)
		}
		result = append(result, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating facet rows: %w", err)
	}

	return result, nil
}

// FacetQuery build SQL facet từ điều kiện của trang product
func FacetQuery(where *catalog.Where) string {
	return `
		WITH filtered AS (
			SELECT p.id FROM products p ` + where.SQL() + `
		)
		SELECT a.id, a.name, a.slug, a.type,
		       av.id, av.value, av.slug, av.hex_color,
		       COUNT(DISTINCT pav.product_id) AS product_count
		FROM filtered f
		JOIN product_attribute_values pav ON pav.product_id = f.id
		JOIN attribute_values av ON av.id = pav.attribute_value_id
		JOIN attributes a ON a.id = av.attribute_id
		GROUP BY a.id, a.name, a.slug, a.type, a.position,
		         av.id, av.value, av.slug, av.hex_color, av.position
		ORDER BY a.position, a.name, av.position, av.value`
}

// ============================================================
// CATEGORIES
// ============================================================

func (r *postgresRepository) ListRootCategories(ctx context.Context, withChildren bool) ([]catalog.Category, error) {
	roots, err := r.queryCategories(ctx,
		`SELECT `+categoryColumns+` FROM categories c WHERE c.parent_id IS NULL ORDER BY c.position, c.name`)
	if err != nil {
		return nil, err
	}
	if !withChildren || len(roots) == 0 {
		return roots, nil
	}

	ids := make([]uuid.UUID, len(roots))
	index := make(map[uuid.UUID]int, len(roots))
	for i := range roots {
		ids[i] = roots[i].ID
		index[roots[i].ID] = i
	}

	children, err := r.queryCategories(ctx,
		`SELECT `+categoryColumns+` FROM categories c WHERE c.parent_id = ANY($1) ORDER BY c.position, c.name`, ids)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		i := index[*child.ParentID]
		roots[i].Children = append(roots[i].Children, child)
	}
	return roots, nil
}

func (r *postgresRepository) FindCategoryBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	list, err := r.queryCategories(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE c.slug = $1`, slug)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *postgresRepository) queryCategories(ctx context.Context, query string, args ...interface{}) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]catalog.Category, 0)
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Name, &c.Slug, &c.Description, &c.Image, &c.Position); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CollectionsForCategory trả về các collection chứa ít nhất một product của category
func (r *postgresRepository) CollectionsForCategory(ctx context.Context, categoryID uuid.UUID) ([]catalog.Collection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM collections col
		WHERE EXISTS (
			SELECT 1
			FROM collection_products clp
			JOIN category_products cp ON cp.product_id = clp.product_id
			WHERE clp.collection_id = col.id AND cp.category_id = $1
		)
		ORDER BY col.position, col.name`

	return r.queryCollections(ctx, query, categoryID)
}

// ============================================================
// COLLECTIONS
// ============================================================

func (r *postgresRepository) ListRootCollections(ctx context.Context, withChildren bool) ([]catalog.Collection, error) {
	roots, err := r.queryCollections(ctx,
		`SELECT `+collectionColumns+` FROM collections col WHERE col.parent_id IS NULL ORDER BY col.position, col.name`)
	if err != nil {
		return nil, err
	}
	if !withChildren || len(roots) == 0 {
		return roots, nil
	}

	ids := make([]uuid.UUID, len(roots))
	index := make(map[uuid.UUID]int, len(roots))
	for i := range roots {
		ids[i] = roots[i].ID
		index[roots[i].ID] = i
	}

	children, err := r.queryCollections(ctx,
		`SELECT `+collectionColumns+` FROM collections col WHERE col.parent_id = ANY($1) ORDER BY col.position, col.name`, ids)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		i := index[*child.ParentID]
		roots[i].Children = append(roots[i].Children, child)
	}
	return roots, nil
}

func (r *postgresRepository) FindCollectionBySlug(ctx context.Context, slug string) (*catalog.Collection, error) {
	list, err := r.queryCollections(ctx, `SELECT `+collectionColumns+` FROM collections col WHERE col.slug = $1`, slug)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *postgresRepository) queryCollections(ctx context.Context, query string, args ...interface{}) ([]catalog.Collection, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	collections := make([]catalog.Collection, 0)
	for rows.Next() {
		var col catalog.Collection
		if err := rows.Scan(&col.ID, &col.ParentID, &col.Name, &col.Slug,
			&col.Description, &col.HeroImage, &col.Position, &col.IsFeatured); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		collections = append(collections, col)
	}
	return collections, rows.Err()
}

// ============================================================
// SCANNERS (dùng chung với cart / wishlist repository)
// ============================================================

func scanProduct(row pgx.Row) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Status, &p.IsFeatured,
		&p.BasePrice, &p.Images, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ScanVariant đọc các cột: id, product_id, sku, quantity, is_orderable, size, metal_type, weight_grams, price
func ScanVariant(row pgx.Row) (*catalog.Variant, error) {
	var v catalog.Variant
	err := row.Scan(
		&v.ID, &v.ProductID, &v.SKU, &v.Quantity, &v.IsOrderable,
		&v.Size, &v.MetalType, &v.WeightGrams, &v.Price,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
