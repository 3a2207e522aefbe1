package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/productcatalog/internal/platform/bootstrap"
	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/abgdnv/productcatalog/internal/product/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "PRODUCT_SVC_SKIP_INTEGRATION_TESTS"

// ProductStoreSuite runs the GORM store against a real PostgreSQL with the embedded migrations applied.
type ProductStoreSuite struct {
	suite.Suite                             // Embedding testify suite for structured testing
	pgContainer *postgres.PostgresContainer // PostgreSQL container for integration tests
	dbPool      *pgxpool.Pool               // PostgreSQL connection pool shared with GORM
	store       *GormStore                  // store under test
	logger      *slog.Logger                // Logger for the test suite
	ctx         context.Context             // Context for the test suite, used for cancellation and timeouts
}

// SetupSuite starts a PostgreSQL container, applies the migrations and opens the store.
func (s *ProductStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// 1. Start a PostgreSQL container with the specified configuration. Wait for the container to be ready.
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("products"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	// 2. Get the connection string from the container
	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	// 3. Apply the embedded migrations
	require.NoError(s.T(), migrations.Up(connStr), "Failed to apply migrations")
	// applying twice is a no-op
	require.NoError(s.T(), migrations.Up(connStr), "Second migration run should be a no-op")
	s.logger.Info("Migrations applied for integration tests")

	// 4. Open the pool and the GORM session on top of it
	s.dbPool, err = bootstrap.NewDbPool(s.ctx, connStr, 30*time.Second)
	require.NoError(s.T(), err, "Failed to create pgx pool")
	gormDB, err := bootstrap.NewGormDB(s.dbPool, s.logger, "silent")
	require.NoError(s.T(), err, "Failed to open gorm session")

	s.store = NewGormStore(gormDB)
	s.logger.Info("Initialization complete for ProductStoreSuite")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *ProductStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest prepares the database for each test by truncating the products table.
func (s *ProductStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE products RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate products table")
}

// TestProductStoreIntegration runs the ProductStore integration tests.
func TestProductStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(ProductStoreSuite))
}

func (s *ProductStoreSuite) create(name string) *Product {
	s.T().Helper()
	p := &Product{Name: name}
	require.NoError(s.T(), s.store.Create(s.ctx, p), "create helper failed")
	return p
}

func (s *ProductStoreSuite) TestCreateAndFindByID() {
	// given
	created := s.create("Widget")

	// when
	found, err := s.store.FindByID(s.ctx, created.ID)

	// then
	require.NoError(s.T(), err)
	require.Equal(s.T(), int64(1), created.ID, "identity restarts at 1 after truncate")
	require.Equal(s.T(), "Widget", found.Name)
	require.False(s.T(), found.Deleted)
	require.NotZero(s.T(), found.CreatedAt)
}

func (s *ProductStoreSuite) TestFindByID_NotFound() {
	_, err := s.store.FindByID(s.ctx, 42)
	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestSoftDelete() {
	// given
	p := s.create("Gone")
	p.Deleted = true

	// when
	require.NoError(s.T(), s.store.Update(s.ctx, p))

	// then
	_, err := s.store.FindByID(s.ctx, p.ID)
	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
	var deleted bool
	require.NoError(s.T(), s.dbPool.QueryRow(s.ctx, "SELECT deleted FROM products WHERE id = $1", p.ID).Scan(&deleted))
	require.True(s.T(), deleted, "row is kept with the deleted flag set")
}

func (s *ProductStoreSuite) TestUpdate_NotFound() {
	err := s.store.Update(s.ctx, &Product{ID: 999, Name: "nope"})
	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestSearchByName() {
	// given
	s.create("ProductB")
	s.create("productA")
	s.create("Other")
	s.create("50%_off")
	hidden := s.create("ProductHidden")
	hidden.Deleted = true
	require.NoError(s.T(), s.store.Update(s.ctx, hidden))

	testCases := []struct {
		name     string
		fragment string
		expected []string
	}{
		{name: "case-insensitive and ordered", fragment: "PRODUCT", expected: []string{"productA", "ProductB"}},
		{name: "empty fragment", fragment: "", expected: []string{"50%_off", "Other", "productA", "ProductB"}},
		{name: "percent is literal", fragment: "%", expected: []string{"50%_off"}},
		{name: "no match", fragment: "zzz", expected: []string{}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// when
			found, err := s.store.SearchByName(s.ctx, tc.fragment)

			// then
			require.NoError(s.T(), err)
			names := make([]string, 0, len(found))
			for _, p := range found {
				names = append(names, p.Name)
			}
			require.ElementsMatch(s.T(), tc.expected, names)
		})
	}
}

func (s *ProductStoreSuite) TestSearchByName_OrderIsByName() {
	s.create("b")
	s.create("a")
	s.create("c")

	found, err := s.store.SearchByName(s.ctx, "")

	require.NoError(s.T(), err)
	require.Len(s.T(), found, 3)
	require.Equal(s.T(), "a", found[0].Name)
	require.Equal(s.T(), "b", found[1].Name)
	require.Equal(s.T(), "c", found[2].Name)
}

func (s *ProductStoreSuite) TestSeedIfEmpty() {
	inserted, err := s.store.SeedIfEmpty(s.ctx, "ProductA", "ProductB", "ProductAAA")
	require.NoError(s.T(), err)
	require.Equal(s.T(), 3, inserted)

	inserted, err = s.store.SeedIfEmpty(s.ctx, "ProductA", "ProductB", "ProductAAA")
	require.NoError(s.T(), err)
	require.Zero(s.T(), inserted)

	found, err := s.store.FindByID(s.ctx, 1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "ProductA", found.Name)
}
