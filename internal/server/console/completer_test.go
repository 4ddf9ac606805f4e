package console

import (
	"reflect"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter()

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{name: "clear prefix", prefix: "clear", want: []string{"clear-logs", "clear-credentials"}},
		{name: "unique prefix", prefix: "sh", want: []string{"show-logs"}},
		{name: "pause family", prefix: "p", want: []string{"pause"}},
		{name: "full command", prefix: "exit", want: []string{"exit"}},
		{name: "no match", prefix: "nonexistent", want: nil},
		{name: "empty prefix", prefix: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Complete(tt.prefix)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}
