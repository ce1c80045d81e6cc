package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-autoparts-be/internal/dto"
	"ai-autoparts-be/pkg/catalog"
	"ai-autoparts-be/pkg/llm"
)

func strPtr(s string) *string { return &s }

// scriptedLLM answers every call with a fixed response, or routes the last
// message through fn when one is set.
type scriptedLLM struct {
	response string
	err      error
	fn       func(prompt string, images [][]byte) (string, error)
}

func (f *scriptedLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	last := history[len(history)-1]
	if f.fn != nil {
		return f.fn(last.Content, last.Images)
	}
	return f.response, nil
}

func (f *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (f *scriptedLLM) AnalyzeImage(ctx context.Context, image []byte, instructions string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: instructions, Images: [][]byte{image}}}, opts...)
}

// fakeVehicleCatalog serves canned manufacturer, model and vehicle data.
type fakeVehicleCatalog struct {
	manufacturers []catalog.Manufacturer
	models        []catalog.Model
	vehicleIDs    []int
	details       map[int]*catalog.VehicleDetails
	tree          catalog.CategoryTree
}

func (f *fakeVehicleCatalog) ListManufacturers(context.Context, int) ([]catalog.Manufacturer, error) {
	return f.manufacturers, nil
}

func (f *fakeVehicleCatalog) ListModels(context.Context, int, int, int, int) ([]catalog.Model, error) {
	return f.models, nil
}

func (f *fakeVehicleCatalog) ListVehicleIDs(context.Context, int, int, int, int) ([]int, error) {
	return f.vehicleIDs, nil
}

func (f *fakeVehicleCatalog) VehicleDetails(_ context.Context, _, vehicleID, _, _ int) (*catalog.VehicleDetails, error) {
	if d, ok := f.details[vehicleID]; ok {
		return d, nil
	}
	return nil, errors.New("no such vehicle")
}

func (f *fakeVehicleCatalog) FetchCategoryTree(context.Context, int, int, int) (catalog.CategoryTree, error) {
	if f.tree == nil {
		return nil, errors.New("no category tree")
	}
	return f.tree, nil
}

func newAmbiguousModelCatalog(t *testing.T) *fakeVehicleCatalog {
	t.Helper()
	tree, err := catalog.ParseTree([]byte(`{
		"100006": {"text": "Brake System", "children": []}
	}`))
	require.NoError(t, err)

	return &fakeVehicleCatalog{
		manufacturers: []catalog.Manufacturer{{ManufacturerId: 16, ManufacturerName: "BMW"}},
		models: []catalog.Model{
			{ModelId: 101, ModelName: "3 Series (E90)", ModelYearFrom: "2005-01", ModelYearTo: strPtr("2012-08")},
			{ModelId: 102, ModelName: "3 Series (F30)", ModelYearFrom: "2011-10", ModelYearTo: nil},
		},
		vehicleIDs: []int{501},
		details: map[int]*catalog.VehicleDetails{
			501: {ConstructionIntervalStart: "2011-10", ConstructionIntervalEnd: ""},
		},
		tree: tree,
	}
}

func TestResolveRejectsModelIDOffShortlist(t *testing.T) {
	cat := newAmbiguousModelCatalog(t)
	// 9999 is not among the shortlisted model ids
	provider := &scriptedLLM{response: "<modelId>9999</modelId>"}
	svc := NewVehicleService(cat, provider, testLogger{})

	_, err := svc.Resolve(context.Background(), dto.VehicleQuery{
		Manufacturer: "BMW",
		Model:        "3 Series",
		Year:         2012,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not on the shortlist")
}

func TestResolvePicksModelFromShortlist(t *testing.T) {
	cat := newAmbiguousModelCatalog(t)
	provider := &scriptedLLM{response: "<modelId>102</modelId>"}
	svc := NewVehicleService(cat, provider, testLogger{})

	resolved, err := svc.Resolve(context.Background(), dto.VehicleQuery{
		Manufacturer: "BMW",
		Model:        "3 Series",
		Year:         2012,
	})
	require.NoError(t, err)
	assert.Equal(t, 501, resolved.VehicleId)
	assert.NotEmpty(t, resolved.Categories)
}

func TestResolveRejectsUnparsableModelAnswer(t *testing.T) {
	cat := newAmbiguousModelCatalog(t)
	provider := &scriptedLLM{response: "the F30 seems right"}
	svc := NewVehicleService(cat, provider, testLogger{})

	_, err := svc.Resolve(context.Background(), dto.VehicleQuery{
		Manufacturer: "BMW",
		Model:        "3 Series",
		Year:         2012,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model id")
}

func TestModelYearInRange(t *testing.T) {
	tests := []struct {
		name  string
		model catalog.Model
		year  int
		want  bool
	}{
		{
			name:  "within closed interval",
			model: catalog.Model{ModelYearFrom: "2005-03", ModelYearTo: strPtr("2012-08")},
			year:  2008,
			want:  true,
		},
		{
			name:  "boundary years count",
			model: catalog.Model{ModelYearFrom: "2005-03", ModelYearTo: strPtr("2012-08")},
			year:  2012,
			want:  true,
		},
		{
			name:  "before interval",
			model: catalog.Model{ModelYearFrom: "2005-03", ModelYearTo: strPtr("2012-08")},
			year:  2004,
			want:  false,
		},
		{
			name:  "open end means still in production",
			model: catalog.Model{ModelYearFrom: "2019-01", ModelYearTo: nil},
			year:  2025,
			want:  true,
		},
		{
			name:  "open end still excludes earlier years",
			model: catalog.Model{ModelYearFrom: "2019-01", ModelYearTo: nil},
			year:  2018,
			want:  false,
		},
		{
			name:  "malformed start drops the model",
			model: catalog.Model{ModelYearFrom: "unknown", ModelYearTo: strPtr("2012-08")},
			year:  2008,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, modelYearInRange(tt.model, tt.year))
		})
	}
}

func TestConstructionCoversYear(t *testing.T) {
	closed := &catalog.VehicleDetails{ConstructionIntervalStart: "1997-06", ConstructionIntervalEnd: "2004-02"}
	assert.True(t, constructionCoversYear(closed, 1999))
	assert.False(t, constructionCoversYear(closed, 2005))

	open := &catalog.VehicleDetails{ConstructionIntervalStart: "2020-01", ConstructionIntervalEnd: ""}
	assert.True(t, constructionCoversYear(open, 2024))
	assert.False(t, constructionCoversYear(open, 2019))

	missing := &catalog.VehicleDetails{}
	assert.False(t, constructionCoversYear(missing, 2020))
}

func TestVehicleMatchesQuery(t *testing.T) {
	intPtr := func(n int) *int { return &n }
	details := &catalog.VehicleDetails{
		ConstructionIntervalStart: "1997-06",
		ConstructionIntervalEnd:   "2004-02",
		NumberOfCylinders:         intPtr(6),
		FuelType:                  "Petrol",
	}

	tests := []struct {
		name  string
		query dto.VehicleQuery
		want  bool
	}{
		{
			name:  "year alone matches",
			query: dto.VehicleQuery{Year: 2001},
			want:  true,
		},
		{
			name:  "cylinder mismatch filters out",
			query: dto.VehicleQuery{Year: 2001, Cylinders: 4},
			want:  false,
		},
		{
			name:  "fuel type is case-insensitive",
			query: dto.VehicleQuery{Year: 2001, FuelType: "petrol"},
			want:  true,
		},
		{
			name:  "fuel type mismatch filters out",
			query: dto.VehicleQuery{Year: 2001, FuelType: "Diesel"},
			want:  false,
		},
		{
			name:  "year outside construction interval",
			query: dto.VehicleQuery{Year: 2006, Cylinders: 6},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vehicleMatchesQuery(details, tt.query))
		})
	}

	// Details missing a field skip that filter rather than rejecting.
	sparse := &catalog.VehicleDetails{ConstructionIntervalStart: "1997-06", ConstructionIntervalEnd: "2004-02"}
	assert.True(t, vehicleMatchesQuery(sparse, dto.VehicleQuery{Year: 2001, Cylinders: 8, FuelType: "Diesel"}))
}

func TestLeadingYear(t *testing.T) {
	year, ok := leadingYear("2005-03")
	assert.True(t, ok)
	assert.Equal(t, 2005, year)

	year, ok = leadingYear(" 1999 ")
	assert.True(t, ok)
	assert.Equal(t, 1999, year)

	_, ok = leadingYear("")
	assert.False(t, ok)

	_, ok = leadingYear("n/a")
	assert.False(t, ok)
}
