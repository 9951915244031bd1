package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/footwear-wholesale/events"
	"github.com/go-monolith/mono/pkg/types"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }

type botCall struct {
	Path    string
	Payload map[string]any
}

// newBotServer records every call and answers with the given status per method.
func newBotServer(t *testing.T, status map[string]int) (*httptest.Server, *[]botCall) {
	t.Helper()
	var mu sync.Mutex
	var calls []botCall

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		_ = json.Unmarshal(body, &payload)

		mu.Lock()
		calls = append(calls, botCall{Path: r.URL.Path, Payload: payload})
		mu.Unlock()

		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		code := http.StatusOK
		if c, ok := status[method]; ok {
			code = c
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if code == http.StatusOK {
			_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func sampleOrder() events.OrderPlacedEvent {
	return events.OrderPlacedEvent{
		Reference:     "FW-ABCD2345",
		Kind:          events.OrderKindCart,
		CustomerName:  "Aigerim",
		CustomerPhone: "+7 700 000 0000",
		Items: []events.OrderLine{
			{Name: "Loafer", Quantity: 12, Price: 900, Color: "black", Photo: "https://img.example/loafer.jpg"},
			{Name: "Sandal", Quantity: 6, Price: 400},
		},
		Total:    13200,
		PlacedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestComposeSummary(t *testing.T) {
	got := ComposeSummary(sampleOrder())

	for _, want := range []string{
		"New order FW-ABCD2345",
		"Customer: Aigerim",
		"Phone: +7 700 000 0000",
		"1. Loafer (black): 12 x 900 = 10800",
		"2. Sandal: 6 x 400 = 2400",
		"Total: 13200",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}

	quick := sampleOrder()
	quick.Kind = events.OrderKindQuick
	if !strings.HasPrefix(ComposeSummary(quick), "Quick order") {
		t.Error("expected quick order title")
	}
}

func TestDispatch(t *testing.T) {
	t.Run("message then photo", func(t *testing.T) {
		srv, calls := newBotServer(t, nil)
		m := NewModule(NewBotClient(srv.URL, "TOKEN", "42", time.Second), &mockLogger{})

		m.Dispatch(context.Background(), sampleOrder())

		if len(*calls) != 2 {
			t.Fatalf("expected 2 calls, got %d", len(*calls))
		}
		if (*calls)[0].Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected first path %q", (*calls)[0].Path)
		}
		if (*calls)[0].Payload["chat_id"] != "42" {
			t.Errorf("unexpected chat id: %v", (*calls)[0].Payload["chat_id"])
		}
		if (*calls)[1].Path != "/botTOKEN/sendPhoto" {
			t.Errorf("unexpected second path %q", (*calls)[1].Path)
		}
		if (*calls)[1].Payload["photo"] != "https://img.example/loafer.jpg" {
			t.Errorf("unexpected photo: %v", (*calls)[1].Payload["photo"])
		}
	})

	t.Run("no photo when first item has none", func(t *testing.T) {
		srv, calls := newBotServer(t, nil)
		m := NewModule(NewBotClient(srv.URL, "TOKEN", "42", time.Second), &mockLogger{})

		order := sampleOrder()
		order.Items[0].Photo = ""
		m.Dispatch(context.Background(), order)

		if len(*calls) != 1 {
			t.Errorf("expected only the text message, got %d calls", len(*calls))
		}
	})

	t.Run("message failure is swallowed", func(t *testing.T) {
		srv, calls := newBotServer(t, map[string]int{"sendMessage": http.StatusBadRequest})
		m := NewModule(NewBotClient(srv.URL, "TOKEN", "42", time.Second), &mockLogger{})

		m.Dispatch(context.Background(), sampleOrder())

		if len(*calls) != 1 {
			t.Errorf("expected dispatch to stop after the failed message, got %d calls", len(*calls))
		}
	})

	t.Run("handler never fails", func(t *testing.T) {
		srv, _ := newBotServer(t, map[string]int{"sendMessage": http.StatusInternalServerError})
		m := NewModule(NewBotClient(srv.URL, "TOKEN", "42", time.Second), &mockLogger{})

		if err := m.handleOrderPlaced(context.Background(), sampleOrder(), nil); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})

	t.Run("disabled without token", func(t *testing.T) {
		srv, calls := newBotServer(t, nil)
		m := NewModule(NewBotClient(srv.URL, "", "42", time.Second), &mockLogger{})

		m.Dispatch(context.Background(), sampleOrder())

		if len(*calls) != 0 {
			t.Errorf("expected no calls, got %d", len(*calls))
		}
	})
}

func TestBotClient_Errors(t *testing.T) {
	srv, _ := newBotServer(t, map[string]int{"sendPhoto": http.StatusBadRequest})
	bot := NewBotClient(srv.URL, "TOKEN", "42", time.Second)

	if err := bot.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	err := bot.SendPhoto(context.Background(), "https://img.example/x.jpg", "")
	if !errors.Is(err, ErrDispatchFailed) {
		t.Errorf("expected ErrDispatchFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("expected bot description in error, got %v", err)
	}

	unreachable := NewBotClient("http://127.0.0.1:1", "TOKEN", "42", 200*time.Millisecond)
	if err := unreachable.SendMessage(context.Background(), "hello"); !errors.Is(err, ErrDispatchFailed) {
		t.Errorf("expected ErrDispatchFailed for unreachable host, got %v", err)
	}
}
