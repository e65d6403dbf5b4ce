package audit

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"time"

	"github.com/auditmd/auditmd/internal/cache"
	"github.com/auditmd/auditmd/internal/checklist"
	"github.com/auditmd/auditmd/internal/providers"
	"github.com/auditmd/auditmd/internal/record"
	"github.com/auditmd/auditmd/internal/source"
	"go.uber.org/zap"
)

const (
	toolName      = "auditmd"
	schemaVersion = "1.0"
)

// Params carries everything one run needs.
type Params struct {
	Provider      providers.Auditor
	Model         string
	Checklist     *checklist.Checklist
	Cache         *cache.Cache
	MaxFindings   int
	FailOn        string
	MaxChunkBytes int
	Logger        *zap.Logger
}

func (p Params) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// Run audits a bundle against a checklist. Malformed provider records
// never abort a run: they land in the report's rejected list with
// reasons while valid records continue through.
func Run(ctx context.Context, bundle source.Bundle, p Params) (*record.Report, error) {
	startTime := time.Now()

	if p.Checklist == nil {
		return nil, fmt.Errorf("no checklist provided")
	}

	if len(bundle.Sections) == 0 {
		p.logger().Info("empty bundle, nothing to audit")
		return buildReport(bundle, p, nil, nil, 0, startTime), nil
	}

	chunks := splitIntoChunks(bundle.Sections, p.MaxChunkBytes)
	p.logger().Info("auditing bundle",
		zap.String("checklist", p.Checklist.Meta.Domain),
		zap.Int("files", len(bundle.Files)),
		zap.Int("bytes", bundle.Bytes),
		zap.Int("chunks", len(chunks)))

	chunkItems, llmMs, err := runChunked(ctx, chunks, p)
	if err != nil {
		return nil, err
	}

	// Each chunk is validated on its own: the duplicate-id check only
	// applies within one provider response. Collisions between chunks
	// are distinct findings until dedupe says otherwise.
	var records []record.Record
	var rejected []record.Rejection
	offset := 0
	for _, items := range chunkItems {
		verdicts := record.ValidateSequence(items)
		records = append(records, record.ValidRecords(verdicts)...)
		for _, r := range record.Rejections(verdicts) {
			r.Index += offset
			rejected = append(rejected, r)
		}
		offset += len(items)
	}
	for _, r := range rejected {
		p.logger().Warn("record rejected",
			zap.Int("index", r.Index),
			zap.Strings("reasons", r.Reasons))
	}

	records = dedupe(records)
	sortRecords(records)

	if p.MaxFindings > 0 && len(records) > p.MaxFindings {
		records = records[:p.MaxFindings]
	}

	return buildReport(bundle, p, records, rejected, llmMs, startTime), nil
}

func buildReport(bundle source.Bundle, p Params, records []record.Record, rejected []record.Rejection, llmMs int64, startTime time.Time) *record.Report {
	if records == nil {
		records = []record.Record{}
	}
	return &record.Report{
		Tool:      toolName,
		Version:   schemaVersion,
		RunID:     generateRunID(),
		Checklist: p.Checklist.Meta.Domain,
		Target:    bundle.Root,
		Summary:   record.ComputeSummary(records),
		Records:   records,
		Rejected:  rejected,
		Timing: record.Timing{
			LLMMs:   llmMs,
			TotalMs: time.Since(startTime).Milliseconds(),
		},
	}
}

// dedupe drops exact duplicates (same issue id, location, and
// description) that chunked runs can produce, and renames colliding ids
// on distinct findings so the exported sequence keeps unique ids.
func dedupe(records []record.Record) []record.Record {
	type identity struct {
		location    string
		description string
	}
	byID := make(map[string]identity)
	used := make(map[string]bool)
	var out []record.Record

	for _, r := range records {
		id := identity{r.Location, r.Description}
		if prev, ok := byID[r.Issue]; ok {
			if prev == id {
				continue
			}
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s-%d", r.Issue, n)
				if !used[candidate] {
					r.Issue = candidate
					break
				}
			}
		}
		byID[r.Issue] = id
		used[r.Issue] = true
		out = append(out, r)
	}
	return out
}

// sortRecords freezes the export order: most severe first, then by
// location, then by issue id.
func sortRecords(records []record.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ri, rj := record.SeverityRank(records[i].Severity), record.SeverityRank(records[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if records[i].Location != records[j].Location {
			return records[i].Location < records[j].Location
		}
		return records[i].Issue < records[j].Issue
	})
}

func generateRunID() string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d", time.Now().UnixNano())))
	return fmt.Sprintf("%x", h[:16])
}
