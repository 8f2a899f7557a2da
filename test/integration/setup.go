package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	handler "github.com/coinforge/gamestore/internal/adapters/handler/http"
	repo "github.com/coinforge/gamestore/internal/adapters/repository/postgres"
	"github.com/coinforge/gamestore/internal/core/services"
	"github.com/coinforge/gamestore/internal/cryptox"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// capturingNotifier records verification codes instead of sending email, so
// tests can complete the register-verify flow.
type capturingNotifier struct {
	mu    sync.Mutex
	codes map[string]string
}

func (n *capturingNotifier) SendVerificationCode(ctx context.Context, email, nickname, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[email] = code
	return nil
}

func (n *capturingNotifier) codeFor(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[email]
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Notifier    *capturingNotifier
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	require.NoError(t, applyMigrations(db))

	logger := zap.NewNop()
	notifier := &capturingNotifier{codes: make(map[string]string)}

	cardCipher, err := cryptox.New([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	userRepo := repo.NewUserRepository(db)
	cardRepo := repo.NewCardRepository(db)
	gameRepo := repo.NewGameRepository(db)
	orderRepo := repo.NewOrderRepository(db)
	rechargeRepo := repo.NewRechargeRepository(db)
	reviewRepo := repo.NewReviewRepository(db)

	coinLedger := services.NewLedger(userRepo)
	authService := services.NewAuthService(userRepo, services.AuthConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	}, logger)
	userService := services.NewUserService(userRepo, notifier, 15*time.Minute, logger)
	cardService := services.NewCardService(cardRepo, userRepo, cardCipher)
	gameService := services.NewGameService(gameRepo, userRepo)
	rechargeService := services.NewRechargeService(userRepo, cardRepo, rechargeRepo, coinLedger, logger)
	purchaseService := services.NewPurchaseService(userRepo, gameRepo, orderRepo, coinLedger, logger)
	reviewService := services.NewReviewService(reviewRepo, gameRepo, userRepo)

	router := handler.NewHandler(
		handler.RouterConfig{AllowedOrigins: []string{"*"}},
		authService,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewCardHandler(cardService),
		handler.NewGameHandler(gameService, reviewService),
		handler.NewStoreHandler(rechargeService, purchaseService),
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Notifier:    notifier,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
