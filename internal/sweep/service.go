// Package sweep ties parsing, planning and execution of a sweep together.
package sweep

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-sweeper/internal/config"
	"github/chapool/go-sweeper/internal/sweep/amount"
	"github/chapool/go-sweeper/internal/sweep/executor"
	"github/chapool/go-sweeper/internal/sweep/input"
	"github/chapool/go-sweeper/internal/sweep/keys"
	"github/chapool/go-sweeper/internal/sweep/model"
	"github/chapool/go-sweeper/internal/sweep/plan"
	"github/chapool/go-sweeper/internal/util"
)

// Service is the engine entry point. The configuration is fixed at construction,
// every call receives its inputs explicitly.
type Service struct {
	cfg      config.Sweep
	executor *executor.Executor

	mu     sync.RWMutex
	parsed int
	valid  int
}

// NewService creates the engine. observer may be nil.
func NewService(cfg config.Sweep, client executor.ChainClient, observer executor.Observer) *Service {
	return &Service{
		cfg: cfg,
		executor: executor.New(client, executor.Options{
			ChainID:             cfg.Chain.ChainID(),
			GasLimit:            cfg.Engine.GasLimit,
			Workers:             cfg.Engine.Workers,
			MinSpacing:          cfg.Engine.MinSpacing,
			MaxAttempts:         cfg.Engine.MaxAttempts,
			RetryBackoff:        cfg.Engine.RetryBackoff,
			ExplorerURL:         cfg.Chain.ExplorerURL,
			WaitReceipt:         cfg.Engine.WaitReceipt,
			ReceiptTimeout:      cfg.Engine.ReceiptTimeout,
			ReceiptPollInterval: cfg.Engine.ReceiptPollInterval,
		}, observer),
	}
}

// ParseKeys parses and validates the key text block. It never fails, invalid
// lines are returned with their error kind.
func (s *Service) ParseKeys(text string) []model.Account {
	return keys.ResolveAll(input.Parse(text))
}

// Prepare validates all inputs and builds the plan. Plan level errors are
// returned before any network call is made.
func (s *Service) Prepare(req Request) (*Prepared, error) {
	settings, err := amount.NewSettings(req.AmountMode, req.FixedAmount)
	if err != nil {
		return nil, err
	}

	accounts := s.ParseKeys(req.KeysText)
	valid := keys.ValidAccounts(accounts)

	s.mu.Lock()
	s.parsed, s.valid = len(accounts), len(valid)
	s.mu.Unlock()

	log.Info().
		Int("parsed", len(accounts)).
		Int("valid", len(valid)).
		Msg("SweepService: parsed key input")

	targets, err := plan.Targets(req.CollectionMode, req.Target, input.Lines(req.TargetsText))
	if err != nil {
		return nil, err
	}

	items, err := plan.Build(valid, targets, req.CollectionMode, settings)
	if err != nil {
		return nil, err
	}

	return &Prepared{
		Accounts: accounts,
		Valid:    valid,
		Targets:  targets,
		Plan:     items,
		Settings: settings,
		Mode:     req.CollectionMode,
	}, nil
}

// Execute runs a prepared plan and returns one result per plan item in plan order.
func (s *Service) Execute(ctx context.Context, prepared *Prepared) (*Report, error) {
	if prepared == nil || len(prepared.Plan) == 0 {
		return nil, errors.Wrap(model.ErrNoValidAccounts, "nothing to execute")
	}

	runID := uuid.NewString()
	logger := util.LogFromContext(ctx).With().Str("run_id", runID).Logger()
	ctx = util.WithLogger(ctx, logger)

	report := &Report{
		RunID:     runID,
		Prepared:  prepared,
		StartedAt: time.Now(),
	}

	logger.Info().
		Int("items", len(prepared.Plan)).
		Int64("chain_id", s.cfg.Chain.ID).
		Str("mode", string(prepared.Mode)).
		Str("amount_mode", string(prepared.Settings.Mode)).
		Msg("SweepService: starting sweep")

	report.Results = s.executor.Run(ctx, prepared.Valid, prepared.Plan)
	report.FinishedAt = time.Now()
	report.Summary = s.Summary()

	logger.Info().
		Int("succeeded", report.Summary.Succeeded).
		Int("failed", report.Summary.Failed).
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Msg("SweepService: sweep finished")

	return report, nil
}

// Run prepares and executes a sweep in one call.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	prepared, err := s.Prepare(req)
	if err != nil {
		return nil, err
	}

	return s.Execute(ctx, prepared)
}

// Summary returns parse counts of the last prepared input combined with the
// live executor progress.
func (s *Service) Summary() model.Summary {
	summary := s.executor.Progress().Snapshot()

	s.mu.RLock()
	summary.Parsed = s.parsed
	summary.Valid = s.valid
	summary.Invalid = s.parsed - s.valid
	s.mu.RUnlock()

	return summary
}

// Config returns the configuration the engine was created with.
func (s *Service) Config() config.Sweep {
	return s.cfg
}
