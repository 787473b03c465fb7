package bz2xsi

import (
	"os"
	"path/filepath"
	"testing"
)

func BenchmarkParse(b *testing.B) {
	data, err := os.ReadFile(filepath.Join("testdata", "minimal.xsi"))
	if err != nil {
		b.Fatalf("read: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(data, nil); err != nil {
			b.Fatalf("parse: %v", err)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	x, err := DecodeFile(filepath.Join("testdata", "animated.xsi"), nil)
	if err != nil {
		b.Fatalf("parse: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Format(x, nil); err != nil {
			b.Fatalf("format: %v", err)
		}
	}
}

func BenchmarkValidate(b *testing.B) {
	x, err := DecodeFile(filepath.Join("testdata", "minimal.xsi"), nil)
	if err != nil {
		b.Fatalf("parse: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Validate(x, &ValidateOptions{DisableFileCheck: true})
	}
}
