package domain

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Status
		wantErr bool
	}{
		{name: "todo", in: "Todo", want: StatusTodo},
		{name: "in progress", in: "InProgress", want: StatusInProgress},
		{name: "completed", in: "Completed", want: StatusCompleted},
		{name: "empty defaults to todo", in: "", want: StatusTodo},
		{name: "unknown value", in: "Done", wantErr: true},
		{name: "wrong case", in: "todo", wantErr: true},
		{name: "legacy spaced value", in: "To Do", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStatus(%q) expected error, got %q", tt.in, got)
				}
				if !errors.Is(err, ErrInvalidStatus) {
					t.Errorf("ParseStatus(%q) error = %v, want ErrInvalidStatus", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
