package audit

import (
	"context"
	"strings"
	"testing"

	"github.com/auditmd/auditmd/internal/providers"
	"github.com/auditmd/auditmd/internal/source"
)

func TestSplitIntoChunks(t *testing.T) {
	sections := []source.Section{
		{Path: "a.go", Text: strings.Repeat("a", 60)},
		{Path: "b.go", Text: strings.Repeat("b", 60)},
		{Path: "c.go", Text: strings.Repeat("c", 60)},
	}

	chunks := splitIntoChunks(sections, 100)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		if len(c.Files) != 1 {
			t.Errorf("chunk %d files = %v", i, c.Files)
		}
	}
}

func TestSplitIntoChunks_PacksSmallFiles(t *testing.T) {
	sections := []source.Section{
		{Path: "a.go", Text: strings.Repeat("a", 30)},
		{Path: "b.go", Text: strings.Repeat("b", 30)},
		{Path: "c.go", Text: strings.Repeat("c", 90)},
	}

	chunks := splitIntoChunks(sections, 100)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if len(chunks[0].Files) != 2 {
		t.Errorf("first chunk files = %v, want [a.go b.go]", chunks[0].Files)
	}
}

func TestSplitIntoChunks_OversizedFileGetsOwnChunk(t *testing.T) {
	sections := []source.Section{
		{Path: "small.go", Text: "x"},
		{Path: "huge.go", Text: strings.Repeat("h", 500)},
	}

	chunks := splitIntoChunks(sections, 100)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[1].Files[0] != "huge.go" {
		t.Errorf("second chunk = %v", chunks[1].Files)
	}
}

func TestSplitIntoChunks_Empty(t *testing.T) {
	if chunks := splitIntoChunks(nil, 100); chunks != nil {
		t.Errorf("chunks = %v, want nil", chunks)
	}
}

func TestRunChunked_GroupsInChunkOrder(t *testing.T) {
	// Each chunk returns one record; output must group by chunk and
	// follow chunk order regardless of goroutine scheduling.
	provider := &orderedProvider{}

	sections := []source.Section{
		{Path: "a.go", Text: strings.Repeat("a", 90)},
		{Path: "b.go", Text: strings.Repeat("b", 90)},
		{Path: "c.go", Text: strings.Repeat("c", 90)},
	}
	chunks := splitIntoChunks(sections, 100)

	grouped, _, err := runChunked(context.Background(), chunks, Params{
		Provider:  provider,
		Checklist: testChecklist(t),
	})
	if err != nil {
		t.Fatalf("runChunked() error = %v", err)
	}
	if len(grouped) != 3 {
		t.Fatalf("got %d chunk groups, want 3", len(grouped))
	}
	for i, items := range grouped {
		want := []string{"a.go", "b.go", "c.go"}[i]
		if len(items) != 1 || !strings.Contains(string(items[0]), want) {
			t.Errorf("chunk %d records = %v, want one record in %s", i, items, want)
		}
	}
}

// orderedProvider derives its response from the files named in the
// user prompt, so each chunk's record is attributable.
type orderedProvider struct{}

func (o *orderedProvider) Name() string { return "ordered" }

func (o *orderedProvider) Audit(_ context.Context, req providers.Request) (providers.Response, error) {
	for _, f := range []string{"a.go", "b.go", "c.go"} {
		if strings.Contains(req.UserPrompt, "Files in this batch: "+f) {
			return providers.Response{Content: "[" + recordJSON("r-"+f, "Minor", f+":1") + "]"}, nil
		}
	}
	return providers.Response{Content: "[]"}, nil
}
