package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/gitrdm/gokanset/pkg/clp"
)

func TestDemos(t *testing.T) {
	tests := []struct {
		name string
		run  demo
		want []string
	}{
		{"sets", partitions, []string{"partitions of {1,2,3}: 8", "{A,B} = {1,2}: {(1,2),(2,1)}"}},
		{"relations", family, []string{"grandparent: {(ann,dee),(ann,eve)}", "parent is a function: false"}},
		{"ris", squares, []string{"expanded: {9,16,25,36}"}},
		{"queens", queens(6), []string{"6-queens: 4 solutions"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := clp.NewSolver()
			s.SetLogger(zaptest.NewLogger(t, zaptest.Level(zapcore.InfoLevel)))
			var out bytes.Buffer
			if err := tt.run(context.Background(), s, &out); err != nil {
				t.Fatalf("demo failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output %q does not contain %q", out.String(), w)
				}
			}
		})
	}
}
