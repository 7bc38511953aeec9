package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestLimiter_Allow(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Stop()

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should be allowed")
	}
	if l.Allow("a") {
		t.Error("third request should be limited")
	}
	if !l.Allow("b") {
		t.Error("other keys are independent")
	}
	if got := l.Remaining("a"); got != 0 {
		t.Errorf("Remaining(a) = %d, want 0", got)
	}
	if got := l.Remaining("c"); got != 2 {
		t.Errorf("Remaining(c) = %d, want 2", got)
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := New(1, 20*time.Millisecond)
	defer l.Stop()

	if !l.Allow("a") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("a") {
		t.Fatal("second request should be limited")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("a") {
		t.Error("request after window should be allowed")
	}
}

func TestLimiter_StopReleasesGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := New(1, time.Millisecond)
	l.Stop()
	l.Stop()
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first", map[string]string{"X-Forwarded-For": "1.1.1.1, 2.2.2.2"}, "9.9.9.9:1", "1.1.1.1"},
		{"real ip", map[string]string{"X-Real-IP": " 3.3.3.3 "}, "9.9.9.9:1", "3.3.3.3"},
		{"remote addr", nil, "4.4.4.4:5678", "4.4.4.4"},
		{"remote without port", nil, "5.5.5.5", "5.5.5.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/chat", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChatLimiter_Check(t *testing.T) {
	cl := NewChatLimiter(10, 1)
	defer cl.Stop()

	r := httptest.NewRequest("POST", "/chat", nil)
	if ok, _ := cl.Check(r, "u1"); !ok {
		t.Fatal("first turn should be allowed")
	}
	if ok, msg := cl.Check(r, "u1"); ok || msg == "" {
		t.Error("second turn for the same user should be limited with a message")
	}
	if ok, _ := cl.Check(r, ""); !ok {
		t.Error("anonymous turns only count against the IP budget")
	}
}
