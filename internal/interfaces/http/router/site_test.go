package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/moodtrack/backend/internal/application/identity"
	inventoryapp "github.com/moodtrack/backend/internal/application/inventory"
	moodapp "github.com/moodtrack/backend/internal/application/mood"
	"github.com/moodtrack/backend/internal/domain/identity"
	"github.com/moodtrack/backend/internal/domain/mood"
	"github.com/moodtrack/backend/internal/infrastructure/auth"
	"github.com/moodtrack/backend/internal/infrastructure/config"
	"github.com/moodtrack/backend/internal/infrastructure/mail"
	"github.com/moodtrack/backend/internal/infrastructure/persistence"
	"github.com/moodtrack/backend/internal/interfaces/http/handler"
	"github.com/moodtrack/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testSite struct {
	engine   *gin.Engine
	store    *persistence.Store
	sessions *auth.SessionManager
	items    *inventoryapp.ItemService
	users    *identityapp.UserService
	entries  *moodapp.EntryService
}

var testSessionConfig = config.SessionConfig{
	Secret:     "router-test-secret-0123456789abcdef",
	CookieName: "session",
	TTL:        time.Hour,
	Issuer:     "moodtrack",
	SameSite:   "lax",
}

func newTestSite(t *testing.T, inventoryRequiresAuth bool) *testSite {
	t.Helper()
	prevCost := identity.BcryptCost
	identity.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { identity.BcryptCost = prevCost })

	ctx := context.Background()
	log := zap.NewNop()

	store, err := persistence.OpenMemory(ctx, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	sessions := auth.NewSessionManager(testSessionConfig, auth.NewInMemoryRevocationList())
	cookie := middleware.NewSessionCookie(testSessionConfig)

	items := inventoryapp.NewItemService(store.Items(), nil, log)
	entries := moodapp.NewEntryService(store.Entries(), moodapp.EntryServiceConfig{}, nil, log)
	authService := identityapp.NewAuthService(store.Users(), sessions, nil, log)
	mailer := mail.NewAccountMailer(mail.NewSender(config.SMTPConfig{}, log), "")
	users := identityapp.NewUserService(store.Users(), store.Entries(), mailer, sessions, nil, log)

	base := handler.NewBaseHandler(store)
	engine, err := NewEngine(EngineConfig{
		MaxBodySize: 1 << 20,
		Security:    middleware.DefaultSecurityConfig(),
	}, log, Sessions{Validator: sessions, Cookie: cookie}, base)
	require.NoError(t, err)

	Site(NewRouter(engine), Handlers{
		Inventory: handler.NewInventoryHandler(base, items),
		Mood:      handler.NewMoodHandler(base, entries),
		Auth:      handler.NewAuthHandler(base, authService, cookie),
		Admin:     handler.NewAdminHandler(base, users),
		Health:    handler.NewHealthHandler(store),
	}, InventoryGate(inventoryRequiresAuth), nil)

	return &testSite{engine: engine, store: store, sessions: sessions, items: items, users: users, entries: entries}
}

// createUser adds an account and returns its id and a session token
func (s *testSite) createUser(t *testing.T, email, role string) (string, string) {
	t.Helper()
	result, err := s.users.Create(context.Background(), identityapp.CreateUserInput{
		Email:    email,
		Password: "correct-horse",
		Role:     role,
	})
	require.NoError(t, err)
	issued, err := s.sessions.Issue(auth.Identity{UserID: result.User.ID, Email: email, Role: role})
	require.NoError(t, err)
	return result.User.ID, issued.Token
}

func (s *testSite) addEntry(t *testing.T, userID, date string, m, md, w int) string {
	t.Helper()
	result, err := s.entries.Add(context.Background(), userID, mood.EntryInput{
		Date: date, Motivation: m, Mood: md, Wellbeing: w,
	})
	require.NoError(t, err)
	return result.Entry.ID
}

func (s *testSite) addItem(t *testing.T, name string, quantity int, price string) string {
	t.Helper()
	item, err := s.items.Create(context.Background(), inventoryapp.CreateItemInput{
		Name: name, Quantity: quantity, Price: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return item.ID
}

func (s *testSite) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testSessionConfig.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testSite) get(path, token string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil), token)
}

func (s *testSite) post(path string, form url.Values, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, token)
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

// flashes decodes the notices set by a response
func flashes(t *testing.T, w *httptest.ResponseRecorder) []middleware.Flash {
	t.Helper()
	cookie := responseCookie(w, middleware.FlashCookieName)
	require.NotNil(t, cookie, "expected a flash cookie")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(cookie)
	return middleware.PopFlashes(c)
}

func TestSite_UnauthenticatedRequestsRedirectToLogin(t *testing.T) {
	site := newTestSite(t, false)

	for _, path := range []string{"/mood-tracker", "/mood-tracker/weekly", "/api/mood-data", "/admin", "/change-password"} {
		t.Run(path, func(t *testing.T) {
			w := site.get(path, "")
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
		})
	}
}

func TestSite_UnauthenticatedWritesHaveNoEffect(t *testing.T) {
	site := newTestSite(t, false)
	ownerID, _ := site.createUser(t, "owner@example.com", "participant")
	entryID := site.addEntry(t, ownerID, "2024-01-01", 5, 5, 5)

	w := site.get("/delete_mood/"+entryID, "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))

	w = site.post("/add_mood", url.Values{
		"date": {"2024-01-02"}, "motivation": {"3"}, "mood": {"3"}, "wellbeing": {"3"},
	}, "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))

	remaining, err := site.entries.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, entryID, remaining[0].ID)
}

func TestSite_DeleteForeignEntry(t *testing.T) {
	site := newTestSite(t, false)
	aliceID, _ := site.createUser(t, "alice@example.com", "participant")
	_, bobToken := site.createUser(t, "bob@example.com", "participant")
	entryID := site.addEntry(t, aliceID, "2024-01-01", 4, 4, 4)

	w := site.get("/delete_mood/"+entryID, bobToken)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.MoodTrackerPath, w.Header().Get("Location"))
	assert.Equal(t, []middleware.Flash{{Category: middleware.FlashError, Message: "Entry not found"}}, flashes(t, w))

	remaining, err := site.entries.List(context.Background(), aliceID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, 4, remaining[0].Mood)
}

func TestSite_DeleteOwnEntry(t *testing.T) {
	site := newTestSite(t, false)
	userID, token := site.createUser(t, "alice@example.com", "participant")
	entryID := site.addEntry(t, userID, "2024-01-01", 4, 4, 4)

	w := site.get("/delete_mood/"+entryID, token)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "Entry deleted", flashes(t, w)[0].Message)

	remaining, err := site.entries.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestSite_AddMood(t *testing.T) {
	site := newTestSite(t, false)
	userID, token := site.createUser(t, "alice@example.com", "participant")

	w := site.post("/add_mood", url.Values{
		"date": {"2024-01-02"}, "motivation": {"3"}, "mood": {"4"}, "wellbeing": {"5"}, "note": {"ok"},
	}, token)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.MoodTrackerPath, w.Header().Get("Location"))
	assert.Equal(t, "Entry saved for 2024-01-02", flashes(t, w)[0].Message)

	entries, err := site.entries.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries[0].Mood)

	t.Run("out of range score flashes an error", func(t *testing.T) {
		w := site.post("/add_mood", url.Values{
			"date": {"2024-01-03"}, "motivation": {"11"}, "mood": {"4"}, "wellbeing": {"5"},
		}, token)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, middleware.FlashError, flashes(t, w)[0].Category)
	})
}

func TestSite_MoodData(t *testing.T) {
	site := newTestSite(t, false)
	userID, token := site.createUser(t, "alice@example.com", "participant")
	site.addEntry(t, userID, "2024-01-02", 2, 2, 2)
	site.addEntry(t, userID, "2024-01-01", 5, 5, 5)
	site.addEntry(t, userID, "2024-01-01", 3, 3, 3)

	w := site.get("/api/mood-data", token)
	require.Equal(t, http.StatusOK, w.Code)

	var series mood.ChartSeries
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &series))
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, series.Labels)
	assert.Equal(t, []float64{4, 2}, series.Motivation)
	assert.Equal(t, []float64{4, 2}, series.Mood)
	assert.Equal(t, []float64{4, 2}, series.Wellbeing)
}

func TestSite_MoodDataEmpty(t *testing.T) {
	site := newTestSite(t, false)
	_, token := site.createUser(t, "alice@example.com", "participant")

	w := site.get("/api/mood-data", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"labels":[],"motivation":[],"mood":[],"wellbeing":[]}`, w.Body.String())
}

func TestSite_LoginFlow(t *testing.T) {
	site := newTestSite(t, false)
	site.createUser(t, "alice@example.com", "participant")

	t.Run("wrong password", func(t *testing.T) {
		w := site.post("/login", url.Values{"email": {"alice@example.com"}, "password": {"wrong-password"}}, "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), middleware.LoginPath))
		assert.Nil(t, responseCookie(w, testSessionConfig.CookieName))
		assert.Equal(t, middleware.FlashError, flashes(t, w)[0].Category)
	})

	t.Run("login, browse, logout", func(t *testing.T) {
		w := site.post("/login", url.Values{"email": {"alice@example.com"}, "password": {"correct-horse"}}, "")
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, middleware.MoodTrackerPath, w.Header().Get("Location"))
		session := responseCookie(w, testSessionConfig.CookieName)
		require.NotNil(t, session)
		require.NotEmpty(t, session.Value)
		assert.True(t, session.HttpOnly)

		w = site.get("/mood-tracker", session.Value)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "mood-chart")

		w = site.get("/logout", session.Value)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))

		w = site.get("/mood-tracker", session.Value)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
	})
}

func TestSite_AdminGate(t *testing.T) {
	site := newTestSite(t, false)
	_, participant := site.createUser(t, "alice@example.com", "participant")
	_, admin := site.createUser(t, "root@example.com", "admin")

	w := site.get("/admin", participant)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.MoodTrackerPath, w.Header().Get("Location"))
	assert.Equal(t, "Admin access required", flashes(t, w)[0].Message)

	w = site.get("/admin", admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestSite_AdminCreateUser(t *testing.T) {
	site := newTestSite(t, false)
	_, admin := site.createUser(t, "root@example.com", "admin")

	w := site.post("/admin/create-user", url.Values{
		"email": {"new@example.com"}, "password": {"initial-pass"}, "role": {"participant"},
	}, admin)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
	// No SMTP relay in tests; the account is kept.
	assert.Equal(t, middleware.FlashInfo, flashes(t, w)[0].Category)

	users, err := site.users.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestSite_Inventory(t *testing.T) {
	t.Run("open by default", func(t *testing.T) {
		site := newTestSite(t, false)

		w := site.post("/add_item", url.Values{
			"item_name": {"Widget"}, "quantity": {"3"}, "price": {"9.99"},
		}, "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		w = site.get("/", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Widget")
		assert.Contains(t, w.Body.String(), "9.99")
	})

	t.Run("gated when required", func(t *testing.T) {
		site := newTestSite(t, true)

		w := site.get("/", "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
	})

	t.Run("missing item", func(t *testing.T) {
		site := newTestSite(t, false)

		w := site.get("/delete_item/65a1b2c3d4e5f60718293a4b", "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "Item not found", flashes(t, w)[0].Message)
	})
}

func TestSite_Health(t *testing.T) {
	site := newTestSite(t, false)

	w := site.get("/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body handler.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, persistence.ModeMemory.String(), body.StoreMode)
}

func TestSite_DegradedBanner(t *testing.T) {
	site := newTestSite(t, false)

	w := site.get("/login", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "temporary in-memory store")
}

func TestSite_NotFound(t *testing.T) {
	site := newTestSite(t, false)

	w := site.get("/no-such-page", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestSite_StaticAssets(t *testing.T) {
	site := newTestSite(t, false)

	w := site.get("/static/js/mood-chart.js", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dataset.endpoint")
}

func TestSite_AddItemQuantity(t *testing.T) {
	t.Run("missing quantity is rejected", func(t *testing.T) {
		site := newTestSite(t, false)

		w := site.post("/add_item", url.Values{"item_name": {"Widget"}, "price": {"9.99"}}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Quantity: this field is required")

		items, err := site.items.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("non-numeric quantity is rejected", func(t *testing.T) {
		site := newTestSite(t, false)

		w := site.post("/add_item", url.Values{"item_name": {"Widget"}, "quantity": {"three"}, "price": {"9.99"}}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zero quantity is stored", func(t *testing.T) {
		site := newTestSite(t, false)

		w := site.post("/add_item", url.Values{"item_name": {"Widget"}, "quantity": {"0"}, "price": {"9.99"}}, "")
		assert.Equal(t, http.StatusFound, w.Code)

		items, err := site.items.List(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 0, items[0].Quantity)
	})
}

func TestSite_UpdateItem(t *testing.T) {
	site := newTestSite(t, false)
	id := site.addItem(t, "Widget", 5, "2.50")

	t.Run("edit form shows current values", func(t *testing.T) {
		w := site.get("/update_item/"+id, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Update Widget")
		assert.Contains(t, w.Body.String(), `name="new_quantity" value="5"`)
	})

	t.Run("edit form of a missing item", func(t *testing.T) {
		w := site.get("/update_item/65a1b2c3d4e5f60718293a4b", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing quantity keeps the stock count", func(t *testing.T) {
		w := site.post("/update_item/"+id, url.Values{"new_price": {"3.00"}}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "New quantity: this field is required")

		item, err := site.items.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, 5, item.Quantity)
		assert.True(t, decimal.RequireFromString("2.50").Equal(item.Price))
	})

	t.Run("malformed price", func(t *testing.T) {
		w := site.post("/update_item/"+id, url.Values{"new_quantity": {"1"}, "new_price": {"cheap"}}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Price must be a number")
	})

	t.Run("sets quantity and price", func(t *testing.T) {
		w := site.post("/update_item/"+id, url.Values{"new_quantity": {"0"}, "new_price": {"3.10"}}, "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Equal(t, []middleware.Flash{{Category: middleware.FlashSuccess, Message: "Updated Widget"}}, flashes(t, w))

		item, err := site.items.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, 0, item.Quantity)
		assert.True(t, decimal.RequireFromString("3.10").Equal(item.Price))
	})
}

func TestSite_AddMoodNoteLimit(t *testing.T) {
	site := newTestSite(t, false)
	userID, token := site.createUser(t, "alice@example.com", "participant")

	w := site.post("/add_mood", url.Values{
		"date": {"2024-01-02"}, "motivation": {"3"}, "mood": {"4"}, "wellbeing": {"5"},
		"note": {strings.Repeat("a", mood.MaxNoteLength+1)},
	}, token)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.MoodTrackerPath, w.Header().Get("Location"))
	assert.Equal(t, []middleware.Flash{{Category: middleware.FlashError, Message: "Note cannot exceed 1000 characters"}}, flashes(t, w))

	entries, err := site.entries.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSite_Weekly(t *testing.T) {
	site := newTestSite(t, false)
	aliceID, alice := site.createUser(t, "alice@example.com", "participant")
	bobID, _ := site.createUser(t, "bob@example.com", "participant")

	now := time.Now()
	today := now.Format(mood.DateLayout)
	longAgo := now.AddDate(0, 0, -10).Format(mood.DateLayout)
	site.addEntry(t, aliceID, today, 6, 7, 8)
	site.addEntry(t, aliceID, longAgo, 2, 2, 2)
	site.addEntry(t, bobID, today, 1, 1, 1)

	t.Run("page lists only the last seven days", func(t *testing.T) {
		w := site.get("/mood-tracker/weekly", alice)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), today)
		assert.NotContains(t, w.Body.String(), longAgo)
		assert.Contains(t, w.Body.String(), `data-endpoint="/api/mood-data/weekly"`)
	})

	t.Run("chart data", func(t *testing.T) {
		w := site.get("/api/mood-data/weekly", alice)
		require.Equal(t, http.StatusOK, w.Code)

		var series mood.ChartSeries
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &series))
		assert.Equal(t, []string{today}, series.Labels)
		assert.Equal(t, []float64{6}, series.Motivation)
		assert.Equal(t, []float64{7}, series.Mood)
		assert.Equal(t, []float64{8}, series.Wellbeing)
	})

	t.Run("chart data requires a session", func(t *testing.T) {
		w := site.get("/api/mood-data/weekly", "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
	})
}
