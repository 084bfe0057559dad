package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSecureHandlerMasksKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "password is masked", key: "password", value: "hunter2", wantMask: true},
		{name: "upper-case key is masked", key: "Password", value: "hunter2", wantMask: true},
		{name: "word is masked", key: "word", value: "alice", wantMask: true},
		{name: "candidate is masked", key: "candidate", value: "alice", wantMask: true},
		{name: "target hash is masked", key: "target_hash", value: "abc", wantMask: true},
		{name: "salt is masked", key: "salt", value: "ab", wantMask: true},
		{name: "key containing hash is masked", key: "expected_hash", value: "abc", wantMask: true},
		{name: "redis password is masked", key: "redis_password", value: "pw", wantMask: true},
		{name: "rank is kept", key: "rank", value: "3", wantMask: false},
		{name: "dictionary path is kept", key: "dictionary", value: "words.txt", wantMask: false},
		{name: "oracle name is kept", key: "oracle", value: "descrypt", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)
			logger.Info("test", tt.key, tt.value)

			out := buf.String()
			if tt.wantMask {
				if strings.Contains(out, tt.value) || !strings.Contains(out, MaskValue) {
					t.Errorf("expected %s to be masked, got %q", tt.key, out)
				}
			} else if !strings.Contains(out, tt.value) {
				t.Errorf("expected %s to be kept, got %q", tt.key, out)
			}
		})
	}
}

func TestSecureHandlerMasksValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		wantMask bool
	}{
		{name: "des crypt output", value: "abJnggxhB/yWI", wantMask: true},
		{name: "modular crypt output", value: "$sha3$saltsalt$Zm9vYmFy", wantMask: true},
		{name: "redis url with password", value: "redis://:s3cret@localhost:6379/0", wantMask: true},
		{name: "redis url without password", value: "redis://localhost:6379/0", wantMask: false},
		{name: "plain path", value: "/tmp/words.txt", wantMask: false},
		{name: "twelve characters", value: "abcdefghijkl", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			NewSecureLogger(&buf, true).Info("test", "value", tt.value)

			masked := strings.Contains(buf.String(), MaskValue)
			if masked != tt.wantMask {
				t.Errorf("mask(%q) = %v, want %v (output %q)", tt.value, masked, tt.wantMask, buf.String())
			}
		})
	}
}

func TestSecureHandlerLevels(t *testing.T) {
	t.Parallel()

	t.Run("debug is hidden unless verbose", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewSecureLogger(&buf, false).Debug("hidden")
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("debug is shown when verbose", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewSecureLogger(&buf, true).Debug("shown")
		if !strings.Contains(buf.String(), "shown") {
			t.Errorf("expected output, got %q", buf.String())
		}
	})

	t.Run("warn is shown by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewSecureLogger(&buf, false).Warn("careful")
		if !strings.Contains(buf.String(), "careful") {
			t.Errorf("expected output, got %q", buf.String())
		}
	})
}

func TestSecureHandlerAttrsAndGroups(t *testing.T) {
	t.Parallel()

	t.Run("attributes added with With are masked", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewSecureLogger(&buf, true).With("salt", "ab").Info("test")
		if strings.Contains(buf.String(), "salt=ab") {
			t.Errorf("expected salt to be masked, got %q", buf.String())
		}
	})

	t.Run("grouped attributes are masked", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewSecureLogger(&buf, true).Info("test", slog.Group("match", "rank", 1, "password", "hunter2"))
		out := buf.String()
		if strings.Contains(out, "hunter2") || !strings.Contains(out, "match.rank=1") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("WithGroup keeps masking", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewSecureLogger(&buf, true).WithGroup("job").Info("test", "word", "alice")
		if strings.Contains(buf.String(), "alice") {
			t.Errorf("expected word to be masked, got %q", buf.String())
		}
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		New(&buf, FormatJSON, false).Warn("match committed", "rank", 2, "password", "hunter2")

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
		}
		if rec["password"] != MaskValue {
			t.Errorf("expected masked password, got %v", rec["password"])
		}
		if rec["rank"] != float64(2) {
			t.Errorf("expected rank 2, got %v", rec["rank"])
		}
	})

	t.Run("unknown format falls back to text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		New(&buf, "xml", false).Warn("hello")
		if !strings.Contains(buf.String(), "msg=hello") {
			t.Errorf("expected text output, got %q", buf.String())
		}
	})

	t.Run("nil handler uses the default", func(t *testing.T) {
		t.Parallel()

		if h := NewSecureHandler(nil); h.handler == nil {
			t.Error("expected a handler")
		}
	})
}
