package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (app *TestApp) registerCard(t *testing.T, token string) string {
	t.Helper()

	resp := app.doJSON(t, http.MethodPost, "/api/cards", token, map[string]any{
		"type":       "credit",
		"number":     "4111111111111111",
		"ccv":        "123",
		"expires_at": time.Now().Add(365 * 24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	card := decodeJSON[map[string]any](t, resp)
	id, ok := card["id"].(string)
	require.True(t, ok)
	return id
}

func (app *TestApp) recharge(t *testing.T, token, cardID string, coins int64) {
	t.Helper()

	resp := app.doJSON(t, http.MethodPost, "/api/recharges", token, map[string]any{
		"card_id": cardID,
		"coins":   coins,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func (app *TestApp) createGame(t *testing.T, token, title string, price int64) string {
	t.Helper()

	resp := app.doJSON(t, http.MethodPost, "/api/games", token, map[string]any{
		"title":  title,
		"genres": []string{"arcade"},
		"price":  price,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	game := decodeJSON[map[string]any](t, resp)
	id, ok := game["id"].(string)
	require.True(t, ok)
	return id
}

func TestCardResponsesNeverExposeNumbers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, tokens := app.registerAndLogin(t)
	token := accessToken(t, tokens)
	app.registerCard(t, token)

	resp := app.doJSON(t, http.MethodGet, "/api/cards", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cards := decodeJSON[[]map[string]any](t, resp)
	require.Len(t, cards, 1)

	// Neither the plaintext nor the ciphertext fields appear in the view.
	for _, key := range []string{"number", "ccv", "number_enc", "ccv_enc"} {
		_, present := cards[0][key]
		assert.False(t, present, "field %q must not be serialized", key)
	}

	// The ciphertext at rest is not the plaintext.
	var numberEnc string
	err := app.DB.QueryRow("SELECT number_enc FROM cards LIMIT 1").Scan(&numberEnc)
	require.NoError(t, err)
	assert.NotContains(t, numberEnc, "4111111111111111")
}

func TestRechargeAndPurchaseFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, creatorTokens := app.registerAndLogin(t)
	gameID := app.createGame(t, accessToken(t, creatorTokens), "Space Miner", 60)

	_, buyerTokens := app.registerAndLogin(t)
	buyerToken := accessToken(t, buyerTokens)
	cardID := app.registerCard(t, buyerToken)
	app.recharge(t, buyerToken, cardID, 100)

	resp := app.doJSON(t, http.MethodGet, "/api/users/me", buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeJSON[map[string]any](t, resp)
	assert.Equal(t, float64(100), me["balance"])

	resp = app.doJSON(t, http.MethodPost, "/api/orders", buyerToken, map[string]any{
		"game_id": gameID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decodeJSON[map[string]any](t, resp)
	assert.Equal(t, float64(60), order["price"])

	resp = app.doJSON(t, http.MethodGet, "/api/users/me", buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me = decodeJSON[map[string]any](t, resp)
	assert.Equal(t, float64(40), me["balance"])

	// Buying the same game twice is a conflict and costs nothing.
	resp = app.doJSON(t, http.MethodPost, "/api/orders", buyerToken, map[string]any{
		"game_id": gameID,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// The game accrued earnings and a download.
	var earnings, downloads int64
	err := app.DB.QueryRow("SELECT earnings, downloads FROM games WHERE id = $1", gameID).Scan(&earnings, &downloads)
	require.NoError(t, err)
	assert.Equal(t, int64(60), earnings)
	assert.Equal(t, int64(1), downloads)
}

func TestPurchaseWithoutFundsIsRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, creatorTokens := app.registerAndLogin(t)
	gameID := app.createGame(t, accessToken(t, creatorTokens), "Expensive", 1000)

	_, buyerTokens := app.registerAndLogin(t)
	resp := app.doJSON(t, http.MethodPost, "/api/orders", accessToken(t, buyerTokens), map[string]any{
		"game_id": gameID,
	})
	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	resp.Body.Close()
}

func TestRechargeWithForeignCardIsForbidden(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, ownerTokens := app.registerAndLogin(t)
	cardID := app.registerCard(t, accessToken(t, ownerTokens))

	_, strangerTokens := app.registerAndLogin(t)
	resp := app.doJSON(t, http.MethodPost, "/api/recharges", accessToken(t, strangerTokens), map[string]any{
		"card_id": cardID,
		"coins":   100,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestReviewFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, creatorTokens := app.registerAndLogin(t)
	token := accessToken(t, creatorTokens)
	gameID := app.createGame(t, token, "Reviewable", 0)

	resp := app.doJSON(t, http.MethodPost, "/api/games/"+gameID+"/reviews", token, map[string]any{
		"score":   4,
		"comment": "good",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, http.MethodPost, "/api/games/"+gameID+"/reviews", token, map[string]any{
		"score": 9,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Reviews are readable without authentication.
	resp = app.doJSON(t, http.MethodGet, "/api/games/"+gameID+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reviews := decodeJSON[[]map[string]any](t, resp)
	require.Len(t, reviews, 1)
	assert.Equal(t, float64(4), reviews[0]["score"])
}
