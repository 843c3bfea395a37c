package linters_test

import (
	"testing"

	"github.com/agenthands/pystyle/pkg/lint/linters"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		want    []string
		wantErr bool
	}{
		{"All", nil, linters.Names(), false},
		{"Registry Order", []string{"invalidindent", "noreturntype"}, []string{"noreturntype", "invalidindent"}, false},
		{"Duplicates", []string{"trailingspaces", "trailingspaces"}, []string{"trailingspaces"}, false},
		{"Unknown", []string{"noreturntype", "spelling"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := linters.Select(tt.names, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Select() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d checkers, got %d", len(tt.want), len(got))
			}
			for i, c := range got {
				if c.Name() != tt.want[i] {
					t.Errorf("checker %d: expected %s, got %s", i, tt.want[i], c.Name())
				}
			}
		})
	}

	if n := len(linters.Names()); n != 6 {
		t.Errorf("expected 6 registered linters, got %d", n)
	}
}
