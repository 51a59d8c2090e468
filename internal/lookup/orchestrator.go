// Package lookup runs the research, validation and scoring rounds that
// resolve who holds a role at a company.
package lookup

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/agent"
	"github.com/sells-group/role-scout/internal/model"
)

// Config tunes the retry loop.
type Config struct {
	// MaxRetries is the number of rounds after the first.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	// Threshold is the confidence that ends the loop without validation.
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
	// RoundTimeout bounds a single round; zero means no limit.
	RoundTimeout time.Duration `yaml:"round_timeout" mapstructure:"round_timeout"`
}

// DefaultConfig allows three rounds and accepts at 0.7.
func DefaultConfig() Config {
	return Config{MaxRetries: 2, Threshold: 0.7}
}

// Scorer computes confidence for the confirming URLs of a round.
type Scorer interface {
	Score(ctx context.Context, urls []string, company string, titleMatch, companyMatch bool) float64
}

// TitleMatcher decides whether text mentions a role.
type TitleMatcher interface {
	TitleMatches(designation, text string) bool
}

// Cache stores resolved lookups. Implementations must fail soft.
type Cache interface {
	Get(ctx context.Context, company, role string) (model.LookupResult, bool)
	Put(ctx context.Context, company, role string, result model.LookupResult)
}

// Deps are the collaborators of an Orchestrator. Cache may be nil.
type Deps struct {
	Research   agent.Agent
	Validation agent.Agent
	Scorer     Scorer
	Matcher    TitleMatcher
	Cache      Cache
}

// Orchestrator runs lookups. It holds no per-lookup state and is safe for
// concurrent use.
type Orchestrator struct {
	cfg  Config
	deps Deps
}

// New creates an Orchestrator. Negative retries are treated as zero.
func New(cfg Config, deps Deps) *Orchestrator {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Orchestrator{cfg: cfg, deps: deps}
}

// roundError carries a terminal failure out of a round.
type roundError struct {
	kind model.ErrorKind
	msg  string
	err  error
}

func (e *roundError) Error() string { return e.msg + ": " + e.err.Error() }

func (e *roundError) Unwrap() error { return e.err }

// Run resolves company and role. It never fails: problems are reported as
// an error-shaped result echoing the request.
func (o *Orchestrator) Run(ctx context.Context, company, role string) model.LookupResult {
	req := model.LookupRequest{Company: company, Role: role}.Normalize()
	company, role = req.Company, req.Role
	log := zap.L().With(zap.String("company", company), zap.String("role", role))

	if !req.Valid() {
		return model.NewErrorResult(model.ErrorKindInput, model.MsgBadRequest, company, role, 0, 0)
	}

	log.Debug("lookup state", zap.String("state", string(model.StatePending)))
	if o.deps.Cache != nil {
		if cached, ok := o.deps.Cache.Get(ctx, company, role); ok {
			log.Info("lookup state", zap.String("state", string(model.StateCached)))
			return cached
		}
	}

	var (
		candidate model.LookupResult
		rounds    int
	)
	for attempt := 0; attempt <= o.cfg.MaxRetries; attempt++ {
		rounds = attempt + 1

		state, err := o.round(ctx, log, attempt, company, role)
		if err != nil {
			var re *roundError
			if !errors.As(err, &re) {
				kind, msg := ClassifyFailure(err)
				re = &roundError{kind: kind, msg: msg, err: err}
			}
			log.Warn("lookup state",
				zap.String("state", string(model.StateFailed)),
				zap.Int("attempt", rounds),
				zap.String("reason", re.msg),
				zap.Error(re.err),
			)
			return o.finish(ctx, company, role,
				model.NewErrorResult(re.kind, re.msg, company, role, rounds, 0))
		}

		candidate = state.Candidate(company, role)
		log.Info("round complete",
			zap.Int("attempt", rounds),
			zap.Bool("validated", state.Validated),
			zap.Float64("confidence", state.Confidence),
			zap.Bool("title_match", state.TitleMatch),
			zap.Bool("company_match", state.CompanyMatch),
		)

		if state.Validated || state.Confidence >= o.cfg.Threshold {
			break
		}
	}

	// Exhausting the rounds below threshold is a failure, even with a name.
	if !candidate.IsResolved() || candidate.ConfidenceScore < o.cfg.Threshold {
		log.Info("lookup state",
			zap.String("state", string(model.StateExhausted)),
			zap.Int("attempts", rounds),
			zap.Float64("confidence", candidate.ConfidenceScore),
		)
		return o.finish(ctx, company, role,
			model.NewErrorResult(model.ErrorKindNoResult, model.MsgNoResult, company, role, rounds, candidate.ConfidenceScore))
	}

	log.Info("lookup state",
		zap.String("state", string(model.StateResolved)),
		zap.Int("attempts", rounds),
		zap.Float64("confidence", candidate.ConfidenceScore),
	)
	return o.finish(ctx, company, role, candidate)
}

func (o *Orchestrator) finish(ctx context.Context, company, role string, r model.LookupResult) model.LookupResult {
	r.Cache = false
	if o.deps.Cache != nil {
		o.deps.Cache.Put(ctx, company, role, r)
	}
	return r
}

// round runs research then validation and scores the outcome. Any error
// it returns is terminal for the lookup.
func (o *Orchestrator) round(ctx context.Context, log *zap.Logger, attempt int, company, role string) (model.RoundState, error) {
	state := model.RoundState{Attempt: attempt}

	if o.cfg.RoundTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RoundTimeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return state, &roundError{kind: model.ErrorKindExecution, msg: model.MsgExecution, err: err}
	}

	queries := QueryVariations(company, role)
	log.Debug("lookup state", zap.String("state", string(model.StateResearching)), zap.Int("attempt", attempt+1))
	research, err := o.deps.Research.Run(ctx, agent.Task{
		Name:        "research",
		Instruction: ResearchInstruction(attempt, company, role, queries),
		Queries:     queries,
	})
	if err != nil {
		return state, o.collaboratorFailure(ctx, err)
	}
	state.ResearchText = research

	log.Debug("lookup state", zap.String("state", string(model.StateValidating)), zap.Int("attempt", attempt+1))
	validation, err := o.deps.Validation.Run(ctx, agent.Task{
		Name:        "validation",
		Instruction: ValidationInstruction(company, role, research),
		Queries:     validationQueries(company, role),
	})
	if err != nil {
		return state, o.collaboratorFailure(ctx, err)
	}
	state.ValidationText = validation

	v, err := ParseValidation(validation)
	if err != nil {
		return state, &roundError{kind: model.ErrorKindParse, msg: model.MsgParse, err: err}
	}

	state.Validated = v.Validated
	state.ParsedName = strings.TrimSpace(v.FullName)
	state.URLs = v.ConfirmingURLs
	if first, last, ok := SplitName(v.FullName); ok {
		state.FirstName, state.LastName = first, last
	}
	if urls := ExtractURLs(research); len(urls) > 0 {
		state.PrimarySource = urls[0]
	}

	state.TitleMatch = o.deps.Matcher.TitleMatches(role, validation)
	state.CompanyMatch = strings.Contains(strings.ToLower(validation), strings.ToLower(company))
	state.Confidence = o.deps.Scorer.Score(ctx, state.URLs, company, state.TitleMatch, state.CompanyMatch)

	return state, nil
}

// collaboratorFailure classifies an agent error. A cancelled or timed out
// round is always the generic execution failure.
func (o *Orchestrator) collaboratorFailure(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return &roundError{kind: model.ErrorKindExecution, msg: model.MsgExecution, err: err}
	}
	kind, msg := ClassifyFailure(err)
	return &roundError{kind: kind, msg: msg, err: err}
}
