package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/auditmd/auditmd/internal/cache"
	"github.com/auditmd/auditmd/internal/providers"
	"github.com/auditmd/auditmd/internal/source"
	"go.uber.org/zap"
)

const (
	// maxConcurrency limits parallel provider calls.
	maxConcurrency = 4
	// defaultChunkBytes is the target size of one provider request.
	defaultChunkBytes = 100000 // 100KB
)

// Chunk is a portion of a bundle audited independently.
type Chunk struct {
	Index int
	Text  string
	Files []string
}

// splitIntoChunks packs bundle sections into chunks of at most maxBytes,
// never splitting a file across chunks.
func splitIntoChunks(sections []source.Section, maxBytes int) []Chunk {
	if len(sections) == 0 {
		return nil
	}
	if maxBytes <= 0 {
		maxBytes = defaultChunkBytes
	}

	var chunks []Chunk
	var text string
	var files []string
	idx := 0

	flush := func() {
		if text == "" {
			return
		}
		chunks = append(chunks, Chunk{Index: idx, Text: text, Files: files})
		idx++
		text = ""
		files = nil
	}

	for _, sec := range sections {
		if text != "" && len(text)+len(sec.Text) > maxBytes {
			flush()
		}
		text += sec.Text
		files = append(files, sec.Path)
	}
	flush()

	return chunks
}

// runChunked audits chunks in parallel and returns the raw candidate
// records grouped by chunk, in chunk order, so record ordering stays
// deterministic. Grouping matters: each chunk is validated on its own,
// and id collisions between chunks are resolved later by dedupe rather
// than rejected as duplicates.
func runChunked(ctx context.Context, chunks []Chunk, p Params) ([][]json.RawMessage, int64, error) {
	type result struct {
		items []json.RawMessage
		err   error
	}

	results := make([]result, len(chunks))
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrency)
	var totalLLMMs int64
	var mu sync.Mutex

	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk Chunk) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			items, elapsed, err := auditChunk(ctx, chunk, p)

			mu.Lock()
			totalLLMMs += elapsed
			mu.Unlock()

			results[i] = result{items: items, err: err}
		}(i, chunk)
	}

	wg.Wait()

	perChunk := make([][]json.RawMessage, len(chunks))
	for i, r := range results {
		if r.err != nil {
			return nil, totalLLMMs, fmt.Errorf("chunk %d: %w", i, r.err)
		}
		perChunk[i] = r.items
	}
	return perChunk, totalLLMMs, nil
}

// auditChunk sends one chunk through the cache and provider, with a
// single repair pass when the response is not valid JSON.
func auditChunk(ctx context.Context, chunk Chunk, p Params) ([]json.RawMessage, int64, error) {
	key := cache.Key(p.Provider.Name(), p.Model, p.Checklist.Meta.Domain, chunk.Text)
	if cached, ok := p.Cache.Get(key); ok {
		p.logger().Debug("cache hit", zap.Int("chunk", chunk.Index))
		items, err := parseRecords(cached)
		if err == nil {
			return items, 0, nil
		}
		// A cached response that no longer parses gets refetched.
	}

	sysPrompt := SystemPrompt(p.Checklist)
	req := providers.Request{
		SystemPrompt: sysPrompt,
		UserPrompt:   UserPrompt(p.Checklist, chunk.Text, chunk.Files, p.MaxFindings, p.FailOn),
		MaxTokens:    8192,
	}

	start := time.Now()
	resp, err := p.Provider.Audit(ctx, req)
	if err != nil {
		return nil, time.Since(start).Milliseconds(), err
	}

	items, parseErr := parseRecords(resp.Content)
	if parseErr != nil {
		p.logger().Warn("provider response not valid JSON, attempting repair",
			zap.Int("chunk", chunk.Index), zap.Error(parseErr))

		resp2, err := p.Provider.Audit(ctx, providers.Request{
			SystemPrompt: sysPrompt,
			UserPrompt:   repairPrompt(parseErr, resp.Content),
			MaxTokens:    8192,
		})
		if err != nil {
			return nil, time.Since(start).Milliseconds(), fmt.Errorf("repair pass: %w", err)
		}
		items, parseErr = parseRecords(resp2.Content)
		if parseErr != nil {
			return nil, time.Since(start).Milliseconds(), fmt.Errorf("response invalid after repair: %w", parseErr)
		}
		resp = resp2
	}

	if err := p.Cache.Put(key, resp.Content); err != nil {
		p.logger().Warn("caching response failed", zap.Error(err))
	}

	return items, time.Since(start).Milliseconds(), nil
}
