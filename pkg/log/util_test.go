package log

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestToFields(t *testing.T) {
	err := errors.New("capture pipeline died")

	tests := []struct {
		name  string
		input []any
		want  int
	}{
		{"empty input", []any{}, 0},
		{"string pairs", []any{"source", "webcam", "fps", 30}, 2},
		{"duration value", []any{"cooldown", 800 * time.Millisecond}, 1},
		{"bare error", []any{err}, 1},
		{"zap field passthrough", []any{zap.String("addr", ":8080"), "restarts", 3}, 2},
		{"odd number of args", []any{"device", "/dev/video0", "orphan"}, 2},
		{"non-string key", []any{42, "value"}, 1},
		{"bytes value", []any{"payload", []byte(`{"gear":"3"}`)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := toFields(tt.input...)
			if len(fields) != tt.want {
				t.Fatalf("toFields(%v) produced %d fields, want %d", tt.input, len(fields), tt.want)
			}
			for _, f := range fields {
				if f.Key == "" {
					t.Errorf("field has empty key: %+v", f)
				}
			}
		})
	}
}
