package testserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/game"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
	"github.com/fairdeck/fairdeck/internal/mcp"
	"github.com/fairdeck/fairdeck/internal/sqlite"
	"github.com/fairdeck/fairdeck/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server      *httptest.Server
	DB          *sqlite.DB
	Token       string
	HouseholdID string
}

func New(t *testing.T, token, householdID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	cardRepo := sqlite.NewCardRepository(db)
	partnerRepo := sqlite.NewPartnerRepository(db)
	negotiationRepo := sqlite.NewNegotiationRepository(db)
	gameRepo := sqlite.NewGameRepository(db)

	cardSvc := card.NewService(cardRepo, negotiationRepo, nil)
	partnerSvc := partner.NewService(partnerRepo, cardRepo, nil)
	gameSvc := game.NewService(gameRepo, cardRepo, negotiationRepo, partnerSvc, nil, nil)

	handler := mcp.NewHandler(cardSvc, partnerSvc, gameSvc)

	resolver := &apiKeyResolver{db: db}
	server := httptest.NewServer(transport.NewServer(handler, transport.AuthMiddleware(resolver)))

	ts := &TestServer{
		Server:      server,
		DB:          db,
		Token:       token,
		HouseholdID: householdID,
	}

	require.NoError(t, ts.AddAPIKey(token, householdID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, householdID string) error {
	hash := hashToken(token)
	_, err := ts.DB.Exec(
		`INSERT INTO api_keys (key_hash, household_id, created_at) VALUES (?, ?, ?)`,
		hash, householdID, time.Now(),
	)
	return err
}

type apiKeyResolver struct {
	db *sqlite.DB
}

func (r *apiKeyResolver) ResolveHousehold(ctx context.Context, token string) (string, error) {
	hash := hashToken(token)
	var householdID string
	err := r.db.QueryRowContext(ctx, `SELECT household_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&householdID)
	if err != nil || householdID == "" {
		return "", transport.ErrUnauthorized
	}
	return householdID, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
