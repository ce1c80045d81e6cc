package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-autoparts-be/internal/entity"
	"ai-autoparts-be/internal/repository/implementation"
	"ai-autoparts-be/internal/repository/specification"
	"ai-autoparts-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	lookupRepo := implementation.NewLookupRepository(gormDB)

	t.Run("Check Lookup Repository", func(t *testing.T) {
		count, err := lookupRepo.Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Lookup count: %d", count)
	})

	t.Run("Create And Fetch Lookup", func(t *testing.T) {
		ctx := context.Background()
		lookup := &entity.Lookup{
			Id:         uuid.New(),
			Kind:       entity.LookupKindParts,
			Query:      "front brake pads",
			VehicleId:  21131,
			Status:     "SUCCESS",
			RetryCount: 0,
			Result:     []byte(`{"part_name":"Brake Pad Set, disc brake"}`),
		}
		require.NoError(t, lookupRepo.Create(ctx, lookup))

		found, err := lookupRepo.FindOne(ctx, specification.ByID{ID: lookup.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, lookup.Query, found.Query)
		assert.Equal(t, lookup.VehicleId, found.VehicleId)

		byKind, err := lookupRepo.FindAll(ctx,
			specification.ByKind{Kind: entity.LookupKindParts},
			specification.OrderBy{Field: "created_at", Desc: true},
			specification.Pagination{Limit: 10, Offset: 0},
		)
		require.NoError(t, err)
		assert.NotEmpty(t, byKind)
	})
}
