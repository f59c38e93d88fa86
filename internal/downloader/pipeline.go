package downloader

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Options describes one pipeline run.
type Options struct {
	DestDir     string
	MaxDuration time.Duration
	MaxResults  int
	Timeout     time.Duration
	Quiet       bool
	JSON        bool

	// IsolateResolveErrors downgrades resolver transport failures from
	// run-aborting to per-item, matching how delivery failures are
	// already handled.
	IsolateResolveErrors bool

	// OnStatus receives progress snapshots when set.
	OnStatus func(Status)
}

// Report summarizes a finished (or aborted) run.
type Report struct {
	RunID   string
	Phase   Phase
	Results []ItemResult
}

func (r *Report) counts() (ok, failed, skipped int) {
	for _, item := range r.Results {
		switch item.Outcome {
		case OutcomeSuccess:
			ok++
		case OutcomeFailed:
			failed++
		case OutcomeSkipped:
			skipped++
		}
	}
	return
}

// FileDeliverer is the delivery collaborator as the orchestrator sees it.
// *Deliverer satisfies it; tests substitute fakes.
type FileDeliverer interface {
	DeliverFile(ctx context.Context, video ResolvedVideo, destDir string, meta TrackMeta) (string, error)
}

// Pipeline sequences resolution and delivery over a query list, one item
// at a time. Each run owns its status and results; pipelines themselves
// hold no per-run state and may be reused.
type Pipeline struct {
	resolver  *Resolver
	deliverer FileDeliverer
	printer   *Printer
	opts      Options
}

// NewPipeline wires a pipeline to a search client.
func NewPipeline(search SearchClient, opts Options) *Pipeline {
	printer := newPrinter(opts)
	return &Pipeline{
		resolver:  NewResolver(search, opts.MaxDuration, printer),
		deliverer: NewDeliverer(opts.Timeout, printer),
		printer:   printer,
		opts:      opts,
	}
}

// Run resolves and delivers every query in order. Per-item misses and
// delivery failures are recorded and the run continues; a resolver
// transport failure aborts the run unless IsolateResolveErrors is set.
// Cancellation is observed only at per-query boundaries.
func (p *Pipeline) Run(ctx context.Context, queries []string) (*Report, error) {
	queries = CleanQueries(queries)
	report := &Report{RunID: uuid.NewString(), Phase: PhaseIdle}

	for i, query := range queries {
		if err := ctx.Err(); err != nil {
			report.Phase = PhaseError
			p.emit(report, i, len(queries), query)
			return report, err
		}

		prefix := p.printer.Prefix(i+1, len(queries), query)

		report.Phase = PhaseSearching
		p.emit(report, i, len(queries), query)

		video, found, err := p.resolver.Resolve(ctx, query)
		if err != nil {
			if p.opts.IsolateResolveErrors {
				report.Results = append(report.Results, ItemResult{Query: query, Outcome: OutcomeFailed, Err: err})
				p.printer.ItemFailed(prefix, err)
				p.emitJSON(query, "", "", "error", err)
				continue
			}
			report.Phase = PhaseError
			p.emit(report, i, len(queries), query)
			p.emitJSON(query, "", "", "error", err)
			p.printer.Log(LogError, err.Error())
			return report, markReported(err)
		}
		if !found {
			report.Results = append(report.Results, ItemResult{Query: query, Outcome: OutcomeSkipped, Reason: "no suitable video"})
			p.printer.ItemSkipped(prefix, "no suitable video")
			p.emitJSON(query, "", "", "skip", nil)
			continue
		}

		report.Phase = PhaseDownloading
		p.emit(report, i, len(queries), video.Title)

		filename, err := p.deliverer.DeliverFile(ctx, video, p.opts.DestDir, metaFromQuery(query))
		if err != nil {
			report.Results = append(report.Results, ItemResult{Query: query, Outcome: OutcomeFailed, Err: err})
			p.printer.ItemFailed(prefix, err)
			p.emitJSON(query, video.ID, "", "error", err)
			continue
		}

		report.Results = append(report.Results, ItemResult{Query: query, Outcome: OutcomeSuccess, Filename: filename})
		p.printer.ItemOK(prefix, filename)
		p.emitJSON(query, video.ID, filename, "ok", nil)
	}

	report.Phase = PhaseDone
	p.emit(report, len(queries), len(queries), "")
	ok, failed, skipped := report.counts()
	p.printer.Summary(len(queries), ok, failed, skipped)
	return report, nil
}

// RunArtist resolves one broad artist query into a bounded track list and
// delivers every track sequentially with the same isolation rules.
func (p *Pipeline) RunArtist(ctx context.Context, artist string) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), Phase: PhaseSearching}
	p.emit(report, 0, 0, artist)

	videos, err := p.resolver.ResolveArtist(ctx, artist, p.opts.MaxResults)
	if err != nil {
		report.Phase = PhaseError
		p.emit(report, 0, 0, artist)
		p.printer.Log(LogError, err.Error())
		return report, markReported(err)
	}

	for i, video := range videos {
		if err := ctx.Err(); err != nil {
			report.Phase = PhaseError
			p.emit(report, i, len(videos), video.Title)
			return report, err
		}

		prefix := p.printer.Prefix(i+1, len(videos), video.Title)
		report.Phase = PhaseDownloading
		p.emit(report, i, len(videos), video.Title)

		filename, err := p.deliverer.DeliverFile(ctx, video, p.opts.DestDir, TrackMeta{Artist: artist})
		if err != nil {
			report.Results = append(report.Results, ItemResult{Query: artist, Outcome: OutcomeFailed, Err: err})
			p.printer.ItemFailed(prefix, err)
			p.emitJSON(video.Title, video.ID, "", "error", err)
			continue
		}
		report.Results = append(report.Results, ItemResult{Query: artist, Outcome: OutcomeSuccess, Filename: filename})
		p.printer.ItemOK(prefix, filename)
		p.emitJSON(video.Title, video.ID, filename, "ok", nil)
	}

	report.Phase = PhaseDone
	p.emit(report, len(videos), len(videos), "")
	ok, failed, skipped := report.counts()
	p.printer.Summary(len(videos), ok, failed, skipped)
	return report, nil
}

func (p *Pipeline) emit(report *Report, index, total int, label string) {
	if p.opts.OnStatus == nil {
		return
	}
	p.opts.OnStatus(Status{
		RunID: report.RunID,
		Index: index,
		Total: total,
		Label: label,
		Phase: report.Phase,
	})
}

func (p *Pipeline) emitJSON(query, id, output, status string, err error) {
	if !p.opts.JSON {
		return
	}
	res := jsonResult{Type: "item", Status: status, Query: query, ID: id, Output: output}
	if err != nil {
		res.Category = string(CategoryOf(err))
		res.Error = err.Error()
	}
	emitJSONResult(res)
}

// metaFromQuery derives tag values from a "title - artist" query; queries
// without the separator tag only the title.
func metaFromQuery(query string) TrackMeta {
	if title, artist, found := strings.Cut(query, " - "); found {
		return TrackMeta{Title: strings.TrimSpace(title), Artist: strings.TrimSpace(artist)}
	}
	return TrackMeta{Title: query}
}
