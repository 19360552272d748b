package tui

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"dsbc/internal/deepseek"
)

func testClientFunc(serverURL string) ClientFunc {
	return func() (*deepseek.Client, error) {
		return deepseek.New("test-token", deepseek.WithBaseURL(serverURL)), nil
	}
}

func newTestModel(t *testing.T, newClient ClientFunc) Model {
	t.Helper()
	return NewModel(newClient, nil, 30*time.Second,
		filepath.Join(t.TempDir(), "credentials.json"))
}

func TestUpdate_BalanceMsg(t *testing.T) {
	m := newTestModel(t, testClientFunc("http://unused"))

	updated, _ := m.Update(balanceMsg{balance: deepseek.Balance{
		Total: 100, Available: 75.5, Used: 24.5, Currency: "USD",
	}})
	model := updated.(Model)

	if !model.hasBalance {
		t.Fatal("hasBalance = false after successful fetch")
	}
	if model.balance.Available != 75.5 {
		t.Errorf("Available = %v, want 75.5", model.balance.Available)
	}
	if len(model.series) != 1 || model.series[0] != 75.5 {
		t.Errorf("series = %v, want [75.5]", model.series)
	}
	if model.refreshing {
		t.Error("refreshing should clear after a fetch")
	}
}

func TestUpdate_BalanceMsgError_KeepsLastGood(t *testing.T) {
	m := newTestModel(t, testClientFunc("http://unused"))

	updated, _ := m.Update(balanceMsg{balance: deepseek.Balance{Available: 50, Currency: "USD"}})
	updated, _ = updated.(Model).Update(balanceMsg{err: errors.New("boom")})
	model := updated.(Model)

	if !model.hasBalance {
		t.Error("a failed refresh should not drop the last good balance")
	}
	if model.balance.Available != 50 {
		t.Errorf("Available = %v, want 50", model.balance.Available)
	}
	if model.fetchErr == nil {
		t.Error("fetchErr should be set")
	}
	if len(model.series) != 1 {
		t.Errorf("series = %v, errors must not extend it", model.series)
	}
}

func TestUpdate_SeriesCapped(t *testing.T) {
	m := newTestModel(t, testClientFunc("http://unused"))

	var model tea.Model = m
	for i := 0; i < maxSeriesPoints+15; i++ {
		model, _ = model.(Model).Update(balanceMsg{balance: deepseek.Balance{
			Available: float64(i), Currency: "USD",
		}})
	}

	series := model.(Model).series
	if len(series) != maxSeriesPoints {
		t.Errorf("len(series) = %d, want %d", len(series), maxSeriesPoints)
	}
	if series[len(series)-1] != float64(maxSeriesPoints+14) {
		t.Errorf("series should keep the newest points, last = %v", series[len(series)-1])
	}
}

func TestUpdate_QuitKey(t *testing.T) {
	m := newTestModel(t, testClientFunc("http://unused"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("cmd() = %#v, want tea.QuitMsg", msg)
	}
}

func TestUpdate_RefreshKey(t *testing.T) {
	m := newTestModel(t, testClientFunc("http://unused"))

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if !updated.(Model).refreshing {
		t.Error("r should mark the model refreshing")
	}
	if cmd == nil {
		t.Error("r should schedule a fetch")
	}
}

func TestFetchCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/balance" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total": 10, "available": 7.5, "used": 2.5, "currency": "USD"}`))
	}))
	defer server.Close()

	m := newTestModel(t, testClientFunc(server.URL))

	msg, ok := m.fetchCmd()().(balanceMsg)
	if !ok {
		t.Fatal("fetchCmd should produce a balanceMsg")
	}
	if msg.err != nil {
		t.Fatalf("fetch error: %v", msg.err)
	}
	if msg.balance.Available != 7.5 {
		t.Errorf("Available = %v, want 7.5", msg.balance.Available)
	}
}

func TestFetchCmd_ResolverError(t *testing.T) {
	m := newTestModel(t, func() (*deepseek.Client, error) {
		return nil, errors.New("no token")
	})

	msg := m.fetchCmd()().(balanceMsg)
	if msg.err == nil {
		t.Error("resolver failure should surface as a fetch error")
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t, testClientFunc("http://unused"))

	out := ansi.Strip(m.View())
	if !strings.Contains(out, "DeepSeek Balance") {
		t.Errorf("view missing title:\n%s", out)
	}
	if !strings.Contains(out, "Fetching balance") {
		t.Errorf("initial view should show the loading line:\n%s", out)
	}

	updated, _ := m.Update(balanceMsg{balance: deepseek.Balance{
		Total: 100, Available: 75.5, Used: 24.5, Currency: "USD",
	}})
	out = ansi.Strip(updated.(Model).View())

	for _, want := range []string{"75.50 USD", "100.00 USD", "24.5%"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}
