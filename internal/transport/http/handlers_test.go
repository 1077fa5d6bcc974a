package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitparty/backend/internal/auth"
	"github.com/splitparty/backend/internal/metrics"
	"github.com/splitparty/backend/internal/service"
	"github.com/splitparty/backend/internal/storage/sqlite"
)

// Prometheus collectors register globally, so the test binary shares one
// metrics instance across all tests.
var testMetrics = metrics.New()

// tokenMailer hands verification tokens straight to the test instead of
// sending mail.
type tokenMailer struct {
	tokens map[string]string
}

func (m *tokenMailer) SendVerification(ctx context.Context, toEmail, token string) error {
	m.tokens[toEmail] = token
	return nil
}

// testAPI is the full stack over a temporary database, driven through the
// router exactly like a real client.
type testAPI struct {
	t      *testing.T
	router http.Handler
	mailer *tokenMailer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mailer := &tokenMailer{tokens: make(map[string]string)}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store, time.Hour)

	authSvc := service.NewAuthService(authenticator, jwtManager, mailer, store, testMetrics)
	gatheringSvc := service.NewGatheringService(store, testMetrics)
	receiptSvc := service.NewReceiptService(store, testMetrics)
	assignmentSvc := service.NewAssignmentService(store, testMetrics)

	return &testAPI{
		t:      t,
		router: NewRouter(jwtManager, authSvc, gatheringSvc, receiptSvc, assignmentSvc),
		mailer: mailer,
	}
}

// do sends a JSON request through the router. An empty token leaves the
// Authorization header off.
func (api *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	api.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(api.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// signUp registers, verifies and logs in a user, returning the access token.
func (api *testAPI) signUp(nickname string) string {
	api.t.Helper()

	email := fmt.Sprintf("%s@example.com", nickname)
	rec := api.do(http.MethodPost, "/register", "", map[string]string{
		"email": email, "nickname": nickname, "password": "supersecret",
	})
	require.Equal(api.t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPost, "/verify", "", map[string]string{"token": api.mailer.tokens[email]})
	require.Equal(api.t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPost, "/login", "", map[string]string{
		"email_or_nick": email, "password": "supersecret",
	})
	require.Equal(api.t, http.StatusOK, rec.Code, rec.Body.String())

	return decodeBody[tokenResponse](api.t, rec).AccessToken
}

// createGathering makes a gathering and returns its id.
func (api *testAPI) createGathering(token, name string) string {
	api.t.Helper()

	rec := api.do(http.MethodPost, "/gatherings", token, map[string]string{"name": name})
	require.Equal(api.t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[gatheringResponse](api.t, rec).ID
}

// addReceipt creates a receipt with the given item names and prices.
func (api *testAPI) addReceipt(token, gatheringID string, items map[string]string) receiptResponse {
	api.t.Helper()

	var reqItems []map[string]any
	for name, price := range items {
		reqItems = append(reqItems, map[string]any{"name": name, "price": price})
	}
	rec := api.do(http.MethodPost, "/gatherings/"+gatheringID+"/receipts", token, map[string]any{
		"name": "Dinner", "items": reqItems,
	})
	require.Equal(api.t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[receiptResponse](api.t, rec)
}

func (r receiptResponse) itemID(t *testing.T, name string) string {
	t.Helper()
	for _, item := range r.Items {
		if item.Name == name {
			return item.ID
		}
	}
	t.Fatalf("no item named %q in receipt", name)
	return ""
}

func TestHealthcheck(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountEndpoints(t *testing.T) {
	t.Run("register verify login me", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodPost, "/register", "", map[string]string{
			"email": "alice@example.com", "nickname": "alice", "password": "supersecret",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		registered := decodeBody[userResponse](t, rec)
		assert.Equal(t, "alice", registered.Nickname)
		assert.False(t, registered.Verified)

		rec = api.do(http.MethodPost, "/verify", "", map[string]string{
			"token": api.mailer.tokens["alice@example.com"],
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = api.do(http.MethodPost, "/login", "", map[string]string{
			"email_or_nick": "alice", "password": "supersecret",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		login := decodeBody[tokenResponse](t, rec)
		assert.Equal(t, "bearer", login.TokenType)
		require.NotEmpty(t, login.AccessToken)

		rec = api.do(http.MethodGet, "/me", login.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		me := decodeBody[userResponse](t, rec)
		assert.Equal(t, registered.ID, me.ID)
		assert.True(t, me.Verified)
	})

	t.Run("register with malformed email is rejected", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(http.MethodPost, "/register", "", map[string]string{
			"email": "not-an-email", "nickname": "alice", "password": "supersecret",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("login before verification is forbidden", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(http.MethodPost, "/register", "", map[string]string{
			"email": "bob@example.com", "nickname": "bob", "password": "supersecret",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = api.do(http.MethodPost, "/login", "", map[string]string{
			"email_or_nick": "bob", "password": "supersecret",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("verify accepts the token as a query parameter", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(http.MethodPost, "/register", "", map[string]string{
			"email": "carol@example.com", "nickname": "carol", "password": "supersecret",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		token := api.mailer.tokens["carol@example.com"]
		rec = api.do(http.MethodPost, "/verify?token="+token, "", map[string]string{})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("protected endpoints reject missing and garbage tokens", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodGet, "/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = api.do(http.MethodGet, "/me", "not.a.jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGatheringEndpoints(t *testing.T) {
	t.Run("create and join", func(t *testing.T) {
		api := newTestAPI(t)
		alice := api.signUp("alice")
		bob := api.signUp("bob")

		rec := api.do(http.MethodPost, "/gatherings", alice, map[string]string{
			"name": "Picnic", "description": "Saturday in the park",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		created := decodeBody[gatheringResponse](t, rec)
		assert.Equal(t, "Picnic", created.Name)
		require.NotEmpty(t, created.ID)

		rec = api.do(http.MethodPost, "/gatherings/"+created.ID+"/join", bob, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "Joined successfully", decodeBody[map[string]string](t, rec)["detail"])

		// Joining twice is an error, including for the owner.
		rec = api.do(http.MethodPost, "/gatherings/"+created.ID+"/join", bob, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		rec = api.do(http.MethodPost, "/gatherings/"+created.ID+"/join", alice, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("joining an unknown gathering is a 404", func(t *testing.T) {
		api := newTestAPI(t)
		alice := api.signUp("alice")

		rec := api.do(http.MethodPost, "/gatherings/no-such-id/join", alice, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("gathering with no name is rejected", func(t *testing.T) {
		api := newTestAPI(t)
		alice := api.signUp("alice")

		rec := api.do(http.MethodPost, "/gatherings", alice, map[string]string{"name": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("receipt creation sums the items", func(t *testing.T) {
		api := newTestAPI(t)
		alice := api.signUp("alice")
		gatheringID := api.createGathering(alice, "Picnic")

		receipt := api.addReceipt(alice, gatheringID, map[string]string{
			"Coffee": "3.00",
			"Cake":   "5.10",
		})
		assert.Equal(t, "8.10", receipt.TotalAmount.String())
		assert.Equal(t, "RUB", receipt.Currency)
		assert.Len(t, receipt.Items, 2)
	})

	t.Run("only members can add receipts", func(t *testing.T) {
		api := newTestAPI(t)
		alice := api.signUp("alice")
		carol := api.signUp("carol")
		gatheringID := api.createGathering(alice, "Picnic")

		rec := api.do(http.MethodPost, "/gatherings/"+gatheringID+"/receipts", carol, map[string]any{
			"name":  "Dinner",
			"items": []map[string]any{{"name": "Coffee", "price": "3.00"}},
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestReceiptEndpoints(t *testing.T) {
	// setup builds the canonical scenario: alice owns a gathering, bob is a
	// member, and one receipt has a coffee and a cake on it.
	setup := func(t *testing.T) (api *testAPI, alice, bob string, receipt receiptResponse) {
		api = newTestAPI(t)
		alice = api.signUp("alice")
		bob = api.signUp("bob")

		gatheringID := api.createGathering(alice, "Picnic")
		rec := api.do(http.MethodPost, "/gatherings/"+gatheringID+"/join", bob, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		receipt = api.addReceipt(alice, gatheringID, map[string]string{
			"Coffee": "3.00",
			"Cake":   "5.00",
		})
		return api, alice, bob, receipt
	}

	status := func(t *testing.T, api *testAPI, token, receiptID string) string {
		t.Helper()
		rec := api.do(http.MethodGet, "/receipts/"+receiptID+"/status", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decodeBody[map[string]string](t, rec)["status"]
	}

	t.Run("assign then summarize", func(t *testing.T) {
		api, alice, bob, receipt := setup(t)

		assert.Equal(t, "pending", status(t, api, alice, receipt.ID))

		rec := api.do(http.MethodPost, "/receipts/"+receipt.ID+"/assign", alice, map[string]any{
			"item_ids": []string{receipt.itemID(t, "Coffee")},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		rec = api.do(http.MethodPost, "/receipts/"+receipt.ID+"/assign", bob, map[string]any{
			"item_ids": []string{receipt.itemID(t, "Cake")},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Equal(t, "completed", status(t, api, alice, receipt.ID))
		assert.Equal(t, "completed", status(t, api, bob, receipt.ID))

		rec = api.do(http.MethodGet, "/receipts/"+receipt.ID+"/summary", bob, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		summary := decodeBody[summaryResponse](t, rec)

		require.Len(t, summary.TotalPaidByUser, 2)
		totals := make(map[string]string)
		for _, u := range summary.TotalPaidByUser {
			totals[u.Nickname] = u.TotalPaid.String()
		}
		assert.Equal(t, "3.00", totals["alice"])
		assert.Equal(t, "5.00", totals["bob"])
		assert.Len(t, summary.Items, 2)
	})

	t.Run("assigning an item from another receipt fails whole call", func(t *testing.T) {
		api, alice, _, receipt := setup(t)

		other := api.addReceipt(alice, receipt.GatheringID, map[string]string{"Tea": "2.00"})

		rec := api.do(http.MethodPost, "/receipts/"+receipt.ID+"/assign", alice, map[string]any{
			"item_ids": []string{receipt.itemID(t, "Coffee"), other.itemID(t, "Tea")},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		// The bad call must not have claimed anything.
		assert.Equal(t, "pending", status(t, api, alice, receipt.ID))
	})

	t.Run("not-participating clears claims", func(t *testing.T) {
		api, alice, _, receipt := setup(t)

		rec := api.do(http.MethodPost, "/receipts/"+receipt.ID+"/assign", alice, map[string]any{
			"item_ids": []string{receipt.itemID(t, "Coffee")},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "completed", status(t, api, alice, receipt.ID))

		rec = api.do(http.MethodPost, "/receipts/"+receipt.ID+"/not-participating", alice, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "pending", status(t, api, alice, receipt.ID))
	})

	t.Run("non-members cannot touch the receipt", func(t *testing.T) {
		api, _, _, receipt := setup(t)
		carol := api.signUp("carol")

		for _, req := range []struct {
			method string
			path   string
			body   any
		}{
			{http.MethodPost, "/receipts/" + receipt.ID + "/assign", map[string]any{"item_ids": []string{}}},
			{http.MethodPost, "/receipts/" + receipt.ID + "/not-participating", nil},
			{http.MethodGet, "/receipts/" + receipt.ID + "/summary", nil},
		} {
			rec := api.do(req.method, req.path, carol, req.body)
			assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", req.method, req.path)
		}

		// Status has no membership gate; a stranger with no claims reads pending.
		assert.Equal(t, "pending", status(t, api, carol, receipt.ID))
	})

	t.Run("unknown receipt is a 404", func(t *testing.T) {
		api := newTestAPI(t)
		alice := api.signUp("alice")

		rec := api.do(http.MethodGet, "/receipts/no-such-id/summary", alice, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
