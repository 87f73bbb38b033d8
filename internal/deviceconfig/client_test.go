package deviceconfig

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	client := NewClient("192.168.0.1")

	if client.BaseURL != "http://192.168.0.1" {
		t.Errorf("BaseURL = %s, want http://192.168.0.1", client.BaseURL)
	}
	if client.Username != DefaultUsername {
		t.Errorf("Username = %s, want %s", client.Username, DefaultUsername)
	}
	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should not be nil")
	}
	if client.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, DefaultTimeout)
	}
	if client.Host() != "192.168.0.1" {
		t.Errorf("Host() = %s, want 192.168.0.1", client.Host())
	}
}

func TestNewClientWithURL(t *testing.T) {
	client := NewClientWithURL("http://switch.lan:8080/")

	if client.BaseURL != "http://switch.lan:8080" {
		t.Errorf("BaseURL = %s, want http://switch.lan:8080", client.BaseURL)
	}
	if client.Host() != "switch.lan:8080" {
		t.Errorf("Host() = %s, want switch.lan:8080", client.Host())
	}
}

func TestClientSetters(t *testing.T) {
	client := NewClient("192.168.0.1")
	client.SetTimeout(2 * time.Second)
	client.SetAuth("ops", "pw")
	client.SetRetry(5, 2*time.Second)

	if client.HTTPClient.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", client.HTTPClient.Timeout)
	}
	if client.Username != "ops" || client.Password != "pw" {
		t.Errorf("auth = %s/%s, want ops/pw", client.Username, client.Password)
	}
	if client.MaxRetries != 5 || client.RetryDelay != 2*time.Second {
		t.Errorf("retry = %d/%v, want 5/2s", client.MaxRetries, client.RetryDelay)
	}
}

func TestWithSession_LoginAndLogout(t *testing.T) {
	fake := newFakeSwitch(t)

	called := false
	err := fake.client().WithSession(context.Background(), func(s *Session) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("WithSession() error = %v", err)
	}
	if !called {
		t.Error("session function was not called")
	}

	reqs := fake.requestLog()
	wantLogin := "POST /logon.cgi?username=admin&password=secret&cpassword=&logon=Login"
	if len(reqs) != 2 || reqs[0] != wantLogin || reqs[1] != "GET /Logout.htm" {
		t.Errorf("requests = %q, want login then logout", reqs)
	}
}

func TestWithSession_BadPassword(t *testing.T) {
	fake := newFakeSwitch(t)
	client := fake.client()
	client.Password = "wrong"

	err := client.WithSession(context.Background(), func(s *Session) error {
		t.Error("session function should not run after a failed login")
		return nil
	})
	if !IsAuthError(err) {
		t.Fatalf("WithSession() error = %v, want auth error", err)
	}
	if IsRetryable(err) {
		t.Error("auth errors should not be retryable")
	}
	if fake.logoutCount() != 0 {
		t.Errorf("logouts = %d, want 0", fake.logoutCount())
	}
}

func TestWithSession_LogoutOnError(t *testing.T) {
	fake := newFakeSwitch(t)
	boom := errors.New("boom")

	err := fake.client().WithSession(context.Background(), func(s *Session) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("WithSession() error = %v, want %v", err, boom)
	}
	if fake.logoutCount() != 1 {
		t.Errorf("logouts = %d, want 1", fake.logoutCount())
	}
}

func TestWithSession_LogoutOnPanic(t *testing.T) {
	fake := newFakeSwitch(t)

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("panic was swallowed")
			}
		}()
		_ = fake.client().WithSession(context.Background(), func(s *Session) error {
			panic("session crashed")
		})
	}()

	if fake.logoutCount() != 1 {
		t.Errorf("logouts = %d, want 1", fake.logoutCount())
	}
}

func TestWithSession_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClientWithURL(url)
	client.SetRetry(0, time.Millisecond)

	err := client.WithSession(context.Background(), func(s *Session) error { return nil })
	if !IsNetworkError(err) {
		t.Errorf("WithSession() error = %v, want network error", err)
	}
}

func TestFetchPage_RetriesServerErrors(t *testing.T) {
	fake := newFakeSwitch(t)
	fake.failPaths[PathLED] = 2

	err := fake.client().WithSession(context.Background(), func(s *Session) error {
		page, err := s.FetchPage(context.Background(), PathLED)
		if err != nil {
			return err
		}
		if !strings.Contains(string(page), "var led = 1") {
			t.Errorf("page = %q", page)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithSession() error = %v", err)
	}

	ledReads := 0
	for _, r := range fake.requestLog() {
		if r == "GET /"+PathLED {
			ledReads++
		}
	}
	if ledReads != 3 {
		t.Errorf("LED page read %d times, want 3", ledReads)
	}
}

func TestFetchPage_GivesUp(t *testing.T) {
	fake := newFakeSwitch(t)
	fake.failPaths[PathLED] = 100

	err := fake.client().WithSession(context.Background(), func(s *Session) error {
		_, err := s.FetchPage(context.Background(), PathLED)
		return err
	})

	var devErr *DeviceError
	if !errors.As(err, &devErr) || devErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("error = %v, want HTTP 500", err)
	}
	if fake.logoutCount() != 1 {
		t.Errorf("logouts = %d, want 1", fake.logoutCount())
	}
}

func TestFetchPage_NotFoundNotRetried(t *testing.T) {
	fake := newFakeSwitch(t)

	err := fake.client().WithSession(context.Background(), func(s *Session) error {
		_, err := s.FetchPage(context.Background(), "NoSuchPage.htm")
		return err
	})
	if !IsHTTPError(err) || IsRetryable(err) {
		t.Fatalf("error = %v, want non-retryable HTTP error", err)
	}
	if n := len(fake.requestLog()); n != 3 {
		t.Errorf("%d requests, want login, one read and logout", n)
	}
}

func TestApply_NotRetried(t *testing.T) {
	fake := newFakeSwitch(t)
	fake.failPaths[PathLEDSet] = 1

	err := fake.client().WithSession(context.Background(), func(s *Session) error {
		_, err := s.Apply(context.Background(), LEDQuery(false))
		return err
	})
	if err == nil {
		t.Fatal("Apply() should fail")
	}
	if got := len(fake.writes()); got != 1 {
		t.Errorf("write sent %d times, want 1", got)
	}
}

func TestFetchPage_ContextCancelled(t *testing.T) {
	fake := newFakeSwitch(t)
	fake.failPaths[PathLED] = 100

	client := fake.client()
	client.SetRetry(10, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	err := client.WithSession(ctx, func(s *Session) error {
		cancel()
		_, err := s.FetchPage(ctx, PathLED)
		return err
	})
	if err == nil {
		t.Fatal("FetchPage() should fail after cancellation")
	}
	if fake.logoutCount() != 1 {
		t.Errorf("logouts = %d, want 1 even after cancellation", fake.logoutCount())
	}
}
