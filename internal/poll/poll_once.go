package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobradar/internal/config"
	"jobradar/internal/digest"
	"jobradar/internal/domain"
	"jobradar/internal/logger"
	"jobradar/internal/notify"
	"jobradar/internal/rank"
	"jobradar/internal/scrape"
	"jobradar/internal/scrape/types"
)

// ErrDelivery is the only failure RunOnce returns: the digest was built but
// the notifier could not take it.
var ErrDelivery = errors.New("digest delivery failed")

// Registry supplies the organization identifiers of one ATS family, in
// fetch order.
type Registry interface {
	Companies(ctx context.Context, family string) ([]domain.Company, error)
}

// Scorer scores jobs in order; it never fails (see rank.Scorer).
type Scorer interface {
	ScoreAll(ctx context.Context, jobs []domain.Job) []domain.Scored
}

type Deps struct {
	Config   config.Config
	Registry Registry
	Adapters map[string]types.Adapter // keyed by family
	Scorer   Scorer
	Notifier notify.Notifier
	Logger   *zap.Logger
	Now      func() time.Time
	RunID    string
}

// Report summarizes one run.
type Report struct {
	RunID         string
	Fetched       int
	Kept          int
	Scored        int
	Rejected      map[string]int // filter reason -> count
	FailedSources []string       // family/identifier
	Digest        digest.Digest
	Delivered     bool
}

type pair struct {
	family string
	co     domain.Company
}

// RunOnce fetches, filters, scores and ranks postings, then hands the digest
// to the notifier. Source and scoring failures degrade the result; only a
// delivery failure is returned, wrapped in ErrDelivery.
func RunOnce(ctx context.Context, d Deps) (Report, error) {
	if d.Now == nil {
		d.Now = time.Now
	}
	log := logger.WithRun(d.Logger, d.RunID)
	cfg := d.Config
	rep := Report{RunID: d.RunID, Rejected: map[string]int{}}

	runCtx := ctx
	if dl := cfg.Run.Deadline(); dl > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, dl)
		defer cancel()
	}

	start := time.Now()
	log.Info("poll started")

	pairs := enumerate(runCtx, d.Registry, cfg.Sources, log)
	jobs, failed := fetchAll(runCtx, d.Adapters, pairs, cfg.Sources, log)
	rep.Fetched = len(jobs)
	rep.FailedSources = failed

	f := scrape.NewFilter(cfg.Filters, d.Now)
	kept := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		ok, why := f.Keep(j)
		if !ok {
			rep.Rejected[why]++
			log.Debug("job filtered out",
				zap.String("reason", why),
				zap.String(logger.FieldSource, string(j.Source)),
				zap.String("title", j.Title),
				zap.String("location", j.Location),
			)
			continue
		}
		kept = append(kept, j)
	}
	rep.Kept = len(kept)

	prior := rank.Prior{Rules: cfg.Scoring.PriorityRules, Penalties: cfg.Scoring.Penalties}
	toScore := prior.Order(kept)
	if limit := cfg.Scoring.MaxJobs; limit > 0 && len(toScore) > limit {
		log.Info("capping jobs sent to the scorer",
			zap.Int("kept", len(toScore)),
			zap.Int("max_jobs", limit),
		)
		toScore = toScore[:limit]
	}

	var scored []domain.Scored
	if len(toScore) > 0 && d.Scorer != nil {
		scored = d.Scorer.ScoreAll(runCtx, toScore)
	}
	rep.Scored = len(scored)

	rep.Digest = digest.NewBuilder(cfg.Digest, d.Now).Build(scored, digest.Stats{
		RunID:         d.RunID,
		Fetched:       rep.Fetched,
		Kept:          rep.Kept,
		Scored:        rep.Scored,
		FailedSources: rep.FailedSources,
	})

	log.Info("digest built",
		zap.String("variant", string(rep.Digest.Variant)),
		zap.Int("fetched", rep.Fetched),
		zap.Int("kept", rep.Kept),
		zap.Int("scored", rep.Scored),
		zap.Int("entries", len(rep.Digest.Entries)),
		zap.Int("failed_sources", len(rep.FailedSources)),
		zap.Any("rejected", rep.Rejected),
	)

	if d.Notifier == nil {
		return rep, fmt.Errorf("%w: no notifier configured", ErrDelivery)
	}
	if err := d.Notifier.Notify(ctx, rep.Digest.Subject, rep.Digest.Body); err != nil {
		log.Error("delivery failed", zap.Error(err))
		return rep, fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	rep.Delivered = true

	log.Info("poll finished", zap.Duration("took", time.Since(start)))
	return rep, nil
}

// Families lists the enabled ATS families in fetch order.
func Families(src config.Sources) []string {
	var out []string
	for _, f := range []struct {
		name string
		fam  config.Family
	}{
		{"greenhouse", src.Greenhouse},
		{"lever", src.Lever},
		{"smartrecruiters", src.SmartRecruiters},
		{"careers", src.Careers},
	} {
		if f.fam.Enabled {
			out = append(out, f.name)
		}
	}
	return out
}

func enumerate(ctx context.Context, reg Registry, src config.Sources, log *zap.Logger) []pair {
	if reg == nil {
		log.Warn("no source registry configured")
		return nil
	}
	var pairs []pair
	for _, fam := range Families(src) {
		cos, err := reg.Companies(ctx, fam)
		if err != nil {
			log.Warn("registry lookup failed", zap.String(logger.FieldSource, fam), zap.Error(err))
			continue
		}
		for _, co := range cos {
			if co.ATSType == "" {
				co.ATSType = fam
			}
			pairs = append(pairs, pair{family: fam, co: co})
		}
	}
	return pairs
}

// fetchAll runs every (family, company) fetch on a bounded pool. Results
// land by index, so the returned order is registry order regardless of
// which fetch finished first.
func fetchAll(ctx context.Context, adapters map[string]types.Adapter, pairs []pair, src config.Sources, log *zap.Logger) ([]domain.Job, []string) {
	results := make([][]domain.Job, len(pairs))
	failed := make([]bool, len(pairs))

	workers := src.Workers
	if workers <= 0 {
		workers = 4
	}
	timeout := src.Timeout()
	if timeout <= 0 {
		timeout = types.DefaultTimeout
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i, p := range pairs {
		ad, ok := adapters[p.family]
		if !ok {
			log.Warn("no adapter for family", zap.String(logger.FieldSource, p.family))
			failed[i] = true
			continue
		}

		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			jobs, err := ad.FetchCompany(fctx, p.co)
			if err != nil {
				failed[i] = true
				log.Warn("source unavailable",
					zap.String(logger.FieldSource, p.family),
					zap.String(logger.FieldCompany, p.co.ID()),
					zap.Error(err),
				)
				return nil
			}
			results[i] = jobs
			log.Debug("source fetched",
				zap.String(logger.FieldSource, p.family),
				zap.String(logger.FieldCompany, p.co.ID()),
				zap.Int("jobs", len(jobs)),
			)
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.Job
	var failedIDs []string
	for i, p := range pairs {
		if failed[i] {
			failedIDs = append(failedIDs, p.family+"/"+p.co.ID())
			continue
		}
		all = append(all, results[i]...)
	}
	return all, failedIDs
}
