package expo_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"guest_portal/internal/adapters/expo"
)

func TestSend_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			var msg struct {
				To    string `json:"to"`
				Title string `json:"title"`
			}
			_ = json.NewDecoder(r.Body).Decode(&msg)
			if msg.To != "ExponentPushToken[xyz]" || msg.Title == "" {
				w.WriteHeader(400)
				return
			}
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"status": "ok"}})
		}
	}))
	defer ts.Close()

	cl := expo.New(ts.URL, 100) // high RPS for tests
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := cl.Send(ctx, "ExponentPushToken[xyz]", "New Request", "Jane requested Late Checkout", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestSend_DeviceNotRegistered(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"status":  "error",
			"message": "token is not registered",
			"details": map[string]any{"error": "DeviceNotRegistered"},
		}})
	}))
	defer ts.Close()

	cl := expo.New(ts.URL, 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := cl.Send(ctx, "ExponentPushToken[gone]", "t", "b", nil)
	if !errors.Is(err, expo.ErrDeviceNotRegistered) {
		t.Fatalf("expected ErrDeviceNotRegistered, got %v", err)
	}
}

func TestSend_BadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(418)
	}))
	defer ts.Close()

	cl := expo.New(ts.URL, 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := cl.Send(ctx, "tok", "t", "b", nil); err == nil {
		t.Fatal("expected error for non-retryable status")
	}
}
