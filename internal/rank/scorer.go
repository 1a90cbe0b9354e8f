package rank

import (
	"context"
	"errors"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"jobradar/internal/config"
	"jobradar/internal/domain"
	"jobradar/internal/logger"
)

// Generator is the model client: one prompt in, raw text out.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Scorer asks the model for a fit score, one job at a time. Calls are
// single attempts bounded by scoring.timeout_seconds and spaced by
// scoring.delay_ms; failures turn into the fallback result.
type Scorer struct {
	gen     Generator
	cfg     config.Scoring
	profile config.Profile
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewScorer(gen Generator, cfg config.Scoring, profile config.Profile, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	var lim *rate.Limiter
	if d := cfg.Delay(); d > 0 {
		lim = rate.NewLimiter(rate.Every(d), 1)
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = 200
	}
	return &Scorer{gen: gen, cfg: cfg, profile: profile, limiter: lim, logger: log}
}

func (s *Scorer) outcome(mode domain.ScoringMode) Outcome {
	return Outcome{Mode: mode, FallbackScore: s.cfg.FallbackScore, BinaryFitScore: s.cfg.BinaryFitScore}
}

// Score never returns an error; see ParseScore and Fallback.
func (s *Scorer) Score(ctx context.Context, job domain.Job) domain.ScoreResult {
	if err := ctx.Err(); err != nil {
		return Fallback(s.cfg.FallbackScore, "run deadline reached before scoring")
	}

	prompt, err := BuildPrompt(job, s.profile, s.cfg.DescriptionChars)
	if err != nil {
		s.logger.Warn("building prompt failed", zap.String("url", job.URL), zap.Error(err))
		return Fallback(s.cfg.FallbackScore, "prompt could not be built")
	}

	s.logger.Debug("score request",
		zap.String("title", job.Title),
		zap.String("company", job.Company),
		zap.String("mode", string(job.Mode)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.cfg.MaxLogLength)),
	)

	cctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout())
	defer cancel()

	raw, err := s.gen.GenerateContent(cctx, prompt)
	if err != nil {
		reason := "scoring call failed"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "scoring call timed out"
		}
		s.logger.Warn("scoring failed, using fallback",
			zap.String("title", job.Title),
			zap.String("company", job.Company),
			zap.Int("fallback_score", s.cfg.FallbackScore),
			zap.Error(err),
		)
		return Fallback(s.cfg.FallbackScore, reason)
	}

	res := ParseScore(raw, s.outcome(job.Mode))
	s.logger.Debug("score response",
		zap.String("title", job.Title),
		zap.Int("score", res.Score),
		zap.Bool("fallback", res.Fallback),
		zap.String("response_preview", logger.TruncateForLog(raw, s.cfg.MaxLogLength)),
	)
	if res.Fallback {
		s.logger.Warn("unreadable model output, using fallback",
			zap.String("title", job.Title),
			zap.String("reason", res.Reason),
		)
	}
	return res
}

// ScoreAll scores jobs sequentially in the given order. Once ctx is done
// the remaining jobs get the fallback result without a model call.
func (s *Scorer) ScoreAll(ctx context.Context, jobs []domain.Job) []domain.Scored {
	out := make([]domain.Scored, 0, len(jobs))
	for i, job := range jobs {
		var res domain.ScoreResult
		if err := s.wait(ctx); err != nil {
			res = Fallback(s.cfg.FallbackScore, "run deadline reached before scoring")
		} else {
			res = s.Score(ctx, job)
		}
		out = append(out, domain.Scored{Seq: i, Job: job, Result: res})
	}
	return out
}

func (s *Scorer) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}
