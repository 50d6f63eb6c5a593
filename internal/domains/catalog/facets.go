package catalog

import "github.com/google/uuid"

// FacetRow là một dòng của aggregate query facet:
// (attribute, value, số product đã lọc mang value đó).
// Repository trả về rows đã ORDER BY attribute position/name, value position/value.
type FacetRow struct {
	AttributeID   uuid.UUID
	AttributeName string
	AttributeSlug string
	AttributeType string
	ValueID       uuid.UUID
	Value         string
	ValueSlug     string
	HexColor      *string
	ProductCount  int
}

// GroupFacetRows gom rows thành facets, giữ nguyên thứ tự xuất hiện.
// Value có ProductCount = 0 bị bỏ; attribute không còn value nào cũng bị bỏ.
func GroupFacetRows(rows []FacetRow) []Facet {
	facets := make([]Facet, 0)
	index := make(map[uuid.UUID]int)

	for _, row := range rows {
		if row.ProductCount <= 0 {
			continue
		}

		i, ok := index[row.AttributeID]
		if !ok {
			facets = append(facets, Facet{
				ID:     row.AttributeID,
				Name:   row.AttributeName,
				Slug:   row.AttributeSlug,
				Type:   row.AttributeType,
				Values: []FacetValue{},
			})
			i = len(facets) - 1
			index[row.AttributeID] = i
		}

		facets[i].Values = append(facets[i].Values, FacetValue{
			ID:           row.ValueID,
			Value:        row.Value,
			Slug:         row.ValueSlug,
			HexColor:     row.HexColor,
			ProductCount: row.ProductCount,
		})
	}

	return facets
}
