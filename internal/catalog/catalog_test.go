package catalog

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillagran/propiedadesplus/internal/property"
)

func testCatalog() []property.Property {
	created := func(day int) time.Time {
		return time.Date(2024, 2, day, 0, 0, 0, 0, time.UTC)
	}
	return []property.Property{
		{
			ID: "p1", Title: "Departamento en Providencia", Price: 180000000,
			Operation: property.OperationVenta, Type: property.TypeDepartamento,
			Location: "Providencia, Santiago", Bedrooms: 2, Bathrooms: 2, Area: 85,
			CreatedAt: created(1),
		},
		{
			ID: "p2", Title: "Casa en Las Condes", Price: 2500000,
			Operation: property.OperationArriendo, Type: property.TypeCasa,
			Location: "Las Condes, Santiago", Bedrooms: 4, Bathrooms: 3, Area: 180,
			CreatedAt: created(2),
		},
		{
			ID: "p3", Title: "Loft en Ñuñoa", Price: 120000000,
			Operation: property.OperationVenta, Type: property.TypeDepartamento,
			Location: "Ñuñoa, Santiago", Bedrooms: 1, Bathrooms: 1, Area: 65,
			CreatedAt: created(3),
		},
	}
}

func ids(properties []property.Property) []string {
	result := make([]string, 0, len(properties))
	for _, p := range properties {
		result = append(result, p.ID)
	}
	return result
}

func TestQueryOperationAndPriceLow(t *testing.T) {
	// The venta entries priced [180000000, 120000000] must come back
	// ascending; the arriendo entry must be excluded.
	result := Query(testCatalog(), property.OperationVenta, Criteria{}, SortPriceLow)

	require.Len(t, result, 2)
	assert.Equal(t, []string{"p3", "p1"}, ids(result))
	assert.Equal(t, int64(120000000), result[0].Price)
	assert.Equal(t, int64(180000000), result[1].Price)
}

func TestQueryCriteria(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		criteria  Criteria
		want      []string
	}{
		{
			name:      "no filters returns everything",
			operation: property.OperationTodas,
			criteria:  Criteria{},
			want:      []string{"p3", "p2", "p1"}, // newest first
		},
		{
			name:      "type filter",
			operation: property.OperationTodas,
			criteria:  Criteria{Type: property.TypeCasa},
			want:      []string{"p2"},
		},
		{
			name:      "location is a case-insensitive substring",
			operation: property.OperationTodas,
			criteria:  Criteria{Location: "las condes"},
			want:      []string{"p2"},
		},
		{
			name:      "location slug normalizes dash to space",
			operation: property.OperationTodas,
			criteria:  Criteria{Location: "las-condes"},
			want:      []string{"p2"},
		},
		{
			name:      "price range",
			operation: property.OperationVenta,
			criteria:  Criteria{MinPrice: 130000000, MaxPrice: 200000000},
			want:      []string{"p1"},
		},
		{
			name:      "minimum bedrooms and bathrooms",
			operation: property.OperationTodas,
			criteria:  Criteria{MinBedrooms: 2, MinBathrooms: 2},
			want:      []string{"p2", "p1"},
		},
		{
			name:      "unknown type matches nothing",
			operation: property.OperationTodas,
			criteria:  Criteria{Type: "castillo"},
			want:      []string{},
		},
		{
			name:      "unknown operation matches nothing",
			operation: "permuta",
			criteria:  Criteria{},
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Query(testCatalog(), tt.operation, tt.criteria, SortNewest)
			assert.Equal(t, tt.want, ids(result))
		})
	}
}

func TestQuerySoundnessAndCompleteness(t *testing.T) {
	input := testCatalog()
	criteria := Criteria{MinBathrooms: 2}
	result := Query(input, property.OperationTodas, criteria, SortNewest)

	seen := map[string]int{}
	for _, p := range result {
		assert.GreaterOrEqual(t, p.Bathrooms, 2, "only matching entries may appear")
		seen[p.ID]++
	}
	for _, p := range input {
		if p.Bathrooms >= 2 {
			assert.Equal(t, 1, seen[p.ID], "every matching entry appears exactly once")
		}
	}
}

func TestQueryIsIdempotentAndPure(t *testing.T) {
	input := testCatalog()
	inputCopy := testCatalog()

	first := Query(input, property.OperationTodas, Criteria{}, SortPriceHigh)
	second := Query(input, property.OperationTodas, Criteria{}, SortPriceHigh)

	assert.Equal(t, first, second)
	assert.Equal(t, inputCopy, input, "the input catalog must not be mutated")
}

func TestQueryStableTieBreak(t *testing.T) {
	samePrice := []property.Property{
		{ID: "a", Price: 1000, Operation: property.OperationVenta},
		{ID: "b", Price: 1000, Operation: property.OperationVenta},
		{ID: "c", Price: 1000, Operation: property.OperationVenta},
	}

	result := Query(samePrice, property.OperationVenta, Criteria{}, SortPriceLow)
	assert.Equal(t, []string{"a", "b", "c"}, ids(result), "equal keys keep input order")
}

func TestQueryAreaSort(t *testing.T) {
	result := Query(testCatalog(), property.OperationTodas, Criteria{}, SortArea)
	assert.Equal(t, []string{"p2", "p1", "p3"}, ids(result))
}

func TestQueryEmptyCatalog(t *testing.T) {
	result := Query(nil, property.OperationVenta, Criteria{}, SortNewest)
	assert.Empty(t, result)
}

func TestParseCriteria(t *testing.T) {
	values := url.Values{}
	values.Set("type", "casa")
	values.Set("location", "las-condes")
	values.Set("minPrice", "1000000")
	values.Set("maxPrice", "3000000")
	values.Set("bedrooms", "3")
	values.Set("bathrooms", "2")

	criteria := ParseCriteria(values)
	assert.Equal(t, Criteria{
		Type:         "casa",
		Location:     "las-condes",
		MinPrice:     1000000,
		MaxPrice:     3000000,
		MinBedrooms:  3,
		MinBathrooms: 2,
	}, criteria)
}

func TestParseCriteriaIgnoresMalformedNumbers(t *testing.T) {
	values := url.Values{}
	values.Set("minPrice", "mucho")
	values.Set("bedrooms", "")

	criteria := ParseCriteria(values)
	assert.Equal(t, Criteria{}, criteria)
}

func TestSeedIsWellFormed(t *testing.T) {
	for _, p := range Seed() {
		require.NotEmpty(t, p.ID)
		assert.GreaterOrEqual(t, len(p.Images), 1)
		assert.LessOrEqual(t, len(p.Images), property.MaxImages)
		assert.Greater(t, p.Area, 0)
		assert.False(t, p.CreatedAt.IsZero())
	}
}
