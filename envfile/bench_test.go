package envfile

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func BenchmarkParse(b *testing.B) {
	tests := []struct {
		name string
		line string
	}{
		{"unquoted", "KEY_%d=some_plain_value_%d\n"},
		{"quoted", "KEY_%d=\"quoted value %d\\twith\\x21escapes\"\n"},
		{"commented", "KEY_%d=value_%d # trailing comment\n# full line comment\n"},
	}

	for _, tt := range tests {
		var sb strings.Builder
		for i := range 1000 {
			fmt.Fprintf(&sb, tt.line, i, i)
		}

		input := sb.String()

		b.Run(tt.name, func(b *testing.B) {
			ctx := context.Background()

			b.SetBytes(int64(len(input)))
			b.ReportAllocs()

			for b.Loop() {
				if err := ParseString(ctx, input, SinkFunc(func(string, string) {})); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
