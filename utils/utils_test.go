package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"0612345678", true},
		{"+33612345678", true},
		{"+33 6 12-34.56.78", true},
		{"12345", false},
		{"1234567890123456", false},
		{"06abc45678", false},
		{"", false},
		{"++33612345678", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			if got := ValidatePhone(tt.phone); got != tt.want {
				t.Errorf("ValidatePhone(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}

func TestGetEnvAs(t *testing.T) {
	t.Setenv("TEST_INT", "12")
	t.Setenv("TEST_BAD_INT", "twelve")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_SECONDS", "30")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_EMPTY", "")

	if got := GetEnvAsInt("TEST_INT", 1); got != 12 {
		t.Errorf("Expected 12, got %d", got)
	}
	if got := GetEnvAsInt("TEST_BAD_INT", 1); got != 1 {
		t.Errorf("Expected fallback 1, got %d", got)
	}
	if got := GetEnvAsUint64("TEST_UNSET_UINT", 7); got != 7 {
		t.Errorf("Expected fallback 7, got %d", got)
	}
	if got := GetEnvAsDuration("TEST_DURATION", 0); got != 90*time.Second {
		t.Errorf("Expected 90s, got %v", got)
	}
	if got := GetEnvAsDuration("TEST_SECONDS", 0); got != 30*time.Second {
		t.Errorf("Expected 30s, got %v", got)
	}
	if got := GetEnvAsBool("TEST_BOOL", false); !got {
		t.Error("Expected true")
	}
	if got := GetEnvAsString("TEST_EMPTY", "fallback"); got != "fallback" {
		t.Errorf("Expected empty value to fall back, got %q", got)
	}
}

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name       string
		ua         string
		wantDevice string
	}{
		{"Empty", "", "Unknown"},
		{"Desktop", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", "Desktop"},
		{"iPhone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", "iPhone"},
		{"Bot", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "Bot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, device := ParseUserAgent(tt.ua)
			if device != tt.wantDevice {
				t.Errorf("Expected device %q, got %q", tt.wantDevice, device)
			}
		})
	}
}

func TestGetBaseURL(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		forwarded string
		want      string
	}{
		{"Plain", "", "http://notes.local"},
		{"Behind TLS proxy", "https", "https://notes.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "http://notes.local/notes/", nil)
			if tt.forwarded != "" {
				c.Request.Header.Set("X-Forwarded-Proto", tt.forwarded)
			}
			if got := GetBaseURL(c); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPoolCounters(t *testing.T) {
	before := GetMongoMetrics()
	IncrementActiveConnections()
	IncrementActiveConnections()
	DecrementActiveConnections()

	after := GetMongoMetrics()
	if after.ActiveConnections-before.ActiveConnections != 1 {
		t.Errorf("Expected one more active connection, got %d -> %d", before.ActiveConnections, after.ActiveConnections)
	}
	DecrementActiveConnections()
}
