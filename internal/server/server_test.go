package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"llm-market-sim/internal/persist"
	"llm-market-sim/internal/store"
	"llm-market-sim/internal/types"
)

type fakeGen struct{}

func (f *fakeGen) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "Generated news articles") {
		return "## News 1\nMarkets calm.\n## News 2\nTech sector shows growth.\n" +
			"## News 3\nEnergy prices in decline.\n## News 4\nSteady retail demand.\n" +
			"## News 5\nNo other developments.", nil
	}
	return "Explanation: growth expected.\nRelated sectors: Technology", nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := store.DefaultConfig()
	cfg.Market.InterpretDelayMs = 1

	fs, err := persist.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Register(context.Background(), "alice", "pw", types.TierElementary); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(cfg, &fakeGen{}, fs, fs, nil)
	return NewRouter(mgr)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine) {
	t.Helper()
	w := doJSON(t, router, "POST", "/api/v1/login", `{"account":"alice","password":"pw"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Login failed with status %d: %s", w.Code, w.Body)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/login", `{"account":"alice","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for bad password, got %d", w.Code)
	}

	w = doJSON(t, router, "POST", "/api/v1/login", `{"account":"alice","password":"pw"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["tier"] != "elementary" {
		t.Errorf("Expected elementary tier, got %v", resp["tier"])
	}
	if resp["day"] != float64(1) {
		t.Errorf("Expected day 1, got %v", resp["day"])
	}
}

func TestSessionRequiresLogin(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, "GET", "/api/v1/sessions/alice/prices", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 before login, got %d", w.Code)
	}
}

func TestAdvanceWithoutNewsConflicts(t *testing.T) {
	router := newTestRouter(t)
	login(t, router)

	w := doJSON(t, router, "POST", "/api/v1/sessions/alice/advance", "")
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 without news, got %d: %s", w.Code, w.Body)
	}
}

func TestNewsThenAdvance(t *testing.T) {
	router := newTestRouter(t)
	login(t, router)

	w := doJSON(t, router, "POST", "/api/v1/sessions/alice/news", "")
	if w.Code != http.StatusOK {
		t.Fatalf("News generation failed: %d %s", w.Code, w.Body)
	}
	var newsResp struct {
		News []string `json:"news"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &newsResp); err != nil {
		t.Fatal(err)
	}
	if len(newsResp.News) != 5 {
		t.Errorf("Expected 5 news items, got %d", len(newsResp.News))
	}

	w = doJSON(t, router, "POST", "/api/v1/sessions/alice/advance", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Advance failed: %d %s", w.Code, w.Body)
	}

	w = doJSON(t, router, "GET", "/api/v1/sessions/alice/news/previous", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Previous news failed: %d", w.Code)
	}
	var prevResp struct {
		Items []types.InterpretedNews `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &prevResp); err != nil {
		t.Fatal(err)
	}
	if len(prevResp.Items) != 5 {
		t.Errorf("Expected 5 interpreted items, got %d", len(prevResp.Items))
	}
}

func TestTradeErrorsMapToStatusCodes(t *testing.T) {
	router := newTestRouter(t)
	login(t, router)

	w := doJSON(t, router, "POST", "/api/v1/sessions/alice/buy",
		`{"instrument":"No Such Company","quantity":1}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown instrument, got %d", w.Code)
	}

	w = doJSON(t, router, "POST", "/api/v1/sessions/alice/sell",
		`{"instrument":"Hanbit Electronics","quantity":1}`)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for sell without position, got %d", w.Code)
	}

	// Elementary tier cash cannot cover an absurd quantity.
	w = doJSON(t, router, "POST", "/api/v1/sessions/alice/buy",
		`{"instrument":"Hanbit Electronics","quantity":100000}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for insufficient funds, got %d: %s", w.Code, w.Body)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["code"] != "INSUFFICIENT_FUNDS" {
		t.Errorf("Expected INSUFFICIENT_FUNDS code, got %v", resp["code"])
	}
	if _, ok := resp["max_affordable"]; !ok {
		t.Error("Expected max_affordable hint in response")
	}
}

func TestBuyReturnsPortfolio(t *testing.T) {
	router := newTestRouter(t)
	login(t, router)

	w := doJSON(t, router, "POST", "/api/v1/sessions/alice/buy",
		`{"instrument":"Hanbit Electronics","quantity":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Buy failed: %d %s", w.Code, w.Body)
	}

	var resp struct {
		Portfolio types.PortfolioSummary `json:"portfolio"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Portfolio.Positions) != 1 {
		t.Errorf("Expected one position after buy, got %d", len(resp.Portfolio.Positions))
	}
}

func TestGlossaryEndpoint(t *testing.T) {
	router := newTestRouter(t)
	login(t, router)

	w := doJSON(t, router, "GET", "/api/v1/sessions/alice/glossary", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Glossary failed: %d", w.Code)
	}
	var resp struct {
		Terms []struct {
			Name string `json:"name"`
		} `json:"terms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Terms) == 0 {
		t.Error("Expected glossary terms")
	}
}
