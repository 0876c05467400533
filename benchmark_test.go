package livetl_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ZaguanLabs/livetl"
	"github.com/ZaguanLabs/livetl/backend"
	"github.com/ZaguanLabs/livetl/cache"
	"github.com/ZaguanLabs/livetl/provider"
)

func BenchmarkHashText(b *testing.B) {
	text := "Hello World, this is a sample text for hashing"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		livetl.HashText(text)
	}
}

func BenchmarkEngineCacheKey(b *testing.B) {
	hash := "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		livetl.EngineCacheKey(hash, "French", "openai:gpt-4o-mini")
	}
}

func BenchmarkInMemoryCache_Get(b *testing.B) {
	ctx := context.Background()
	c := cache.NewInMemoryCache(time.Hour)
	c.Set(ctx, "test-key", "test-value")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(ctx, "test-key")
	}
}

func BenchmarkCachedEngine_Hit(b *testing.B) {
	ctx := context.Background()
	e := backend.NewCachedEngine(backend.NewMockEngine(), cache.NewInMemoryCache(time.Hour), nil)
	e.Translate(ctx, "hello", "french")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Translate(ctx, "hello", "french")
	}
}

// Typing bursts only ever reach the translator once per quiet period.
func BenchmarkController_SetInputText(b *testing.B) {
	p := provider.NewMockProvider()
	c := livetl.NewController(p, livetl.WithDebounce(time.Hour))
	defer c.Close()

	var sb strings.Builder
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sb.WriteByte('a' + byte(i%26))
		if sb.Len() > 256 {
			sb.Reset()
		}
		c.SetInputText(sb.String())
	}
}

func BenchmarkLookupLanguage(b *testing.B) {
	for i := 0; i < b.N; i++ {
		livetl.LookupLanguage("German")
	}
}

func BenchmarkSpeechLocale(b *testing.B) {
	for i := 0; i < b.N; i++ {
		livetl.SpeechLocale("arabic")
	}
}
