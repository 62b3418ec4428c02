package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultBatchWorkers = 4
	MaxBatchSize        = 20
)

// PipelineObserver receives per-stage and per-invocation measurements.
type PipelineObserver interface {
	ObserveStage(stage nlquery.Stage, elapsed time.Duration, err error)
	ObserveInvocation(state nlquery.State, failed nlquery.Stage, elapsed time.Duration)
	ObserveTruncation()
}

type nopPipelineObserver struct{}

func (nopPipelineObserver) ObserveStage(nlquery.Stage, time.Duration, error) {}

func (nopPipelineObserver) ObserveInvocation(nlquery.State, nlquery.Stage, time.Duration) {}

func (nopPipelineObserver) ObserveTruncation() {}

type QuestionServiceConfig struct {
	// MaxRows caps the rows handed to the formatter. Zero disables the cap.
	MaxRows int
	// MaxQuestionLength caps a question in runes. Zero disables the cap.
	MaxQuestionLength int
	BatchWorkers      int
}

// Answer is the outcome of one invocation. On failure only InvocationID,
// Question, State, FailedStage and possibly SQL are set.
type Answer struct {
	InvocationID string
	Question     string
	SQL          string
	RowCount     int
	Truncated    bool
	Text         string
	State        nlquery.State
	FailedStage  nlquery.Stage
}

// BatchAnswer pairs an answer with its failure, if any.
type BatchAnswer struct {
	Answer Answer
	Err    error
}

type QuestionService struct {
	schemaDescription string
	synthesizer       *QuerySynthesizer
	guard             *StatementGuard
	sessions          nlquery.SessionManager
	gateway           nlquery.Gateway
	formatter         *ResultFormatter
	observer          PipelineObserver
	logger            *logging.Logger
	cfg               QuestionServiceConfig
}

func NewQuestionService(
	schema nlquery.SchemaDescriptor,
	synthesizer *QuerySynthesizer,
	guard *StatementGuard,
	sessions nlquery.SessionManager,
	gateway nlquery.Gateway,
	formatter *ResultFormatter,
	observer PipelineObserver,
	logger *logging.Logger,
	cfg QuestionServiceConfig,
) *QuestionService {
	if observer == nil {
		observer = nopPipelineObserver{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = DefaultBatchWorkers
	}

	return &QuestionService{
		schemaDescription: schema.Describe(),
		synthesizer:       synthesizer,
		guard:             guard,
		sessions:          sessions,
		gateway:           gateway,
		formatter:         formatter,
		observer:          observer,
		logger:            logger,
		cfg:               cfg,
	}
}

// invocation tracks one pass through the pipeline.
type invocation struct {
	answer  Answer
	started time.Time
}

// transition ignores illegal moves; the call sites below only make legal ones.
func (inv *invocation) transition(to nlquery.State) {
	if inv.answer.State.CanTransition(to) {
		inv.answer.State = to
	}
}

// Answer runs Synthesizing -> Executing -> Formatting for one question. The
// session opened for the invocation is closed exactly once whatever the
// outcome. Sessions hold no connection until a statement executes. Failures
// are returned as *nlquery.Failure; nothing is retried.
func (s *QuestionService) Answer(ctx context.Context, question string) (answer Answer, err error) {
	inv := &invocation{
		answer: Answer{
			InvocationID: uuid.NewString(),
			Question:     question,
			State:        nlquery.StateIdle,
		},
		started: time.Now(),
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.QuestionService.Answer",
		attribute.String("nlquery.invocation_id", inv.answer.InvocationID),
	)
	defer func() { finishSpan(span, err) }()

	if err := s.validateQuestion(question); err != nil {
		return Answer{}, err
	}

	logger := s.logger.With("invocation_id", inv.answer.InvocationID)

	session, err := s.sessions.Open(ctx)
	if err != nil {
		return s.fail(ctx, logger, inv, nlquery.NewFailure(nlquery.StageExecution, fmt.Errorf("open session: %w", err)))
	}
	defer func() {
		if closeErr := s.sessions.Close(session); closeErr != nil {
			logger.WarnContext(ctx, "close session failed", "session_id", session.ID(), "error", closeErr)
		}
	}()
	logger = logger.With("session_id", session.ID())

	inv.transition(nlquery.StateSynthesizing)
	start := time.Now()
	stmt, err := s.synthesizer.Synthesize(ctx, question, s.schemaDescription)
	s.observer.ObserveStage(nlquery.StageSynthesis, time.Since(start), err)
	if err != nil {
		return s.fail(ctx, logger, inv, err)
	}
	inv.answer.SQL = stmt.String()

	inv.transition(nlquery.StateExecuting)
	start = time.Now()
	rows, err := s.execute(ctx, stmt, session)
	s.observer.ObserveStage(nlquery.StageExecution, time.Since(start), err)
	if err != nil {
		return s.fail(ctx, logger, inv, err)
	}

	rows, truncated := rows.Truncate(s.cfg.MaxRows)
	inv.answer.RowCount = rows.Len()
	inv.answer.Truncated = truncated
	if truncated {
		s.observer.ObserveTruncation()
		logger.WarnContext(ctx, "row set truncated before formatting", "max_rows", s.cfg.MaxRows)
	}

	inv.transition(nlquery.StateFormatting)
	start = time.Now()
	text, err := s.formatter.Format(ctx, rows)
	s.observer.ObserveStage(nlquery.StageFormatting, time.Since(start), err)
	if err != nil {
		return s.fail(ctx, logger, inv, err)
	}
	inv.answer.Text = text

	inv.transition(nlquery.StateDone)
	elapsed := time.Since(inv.started)
	s.observer.ObserveInvocation(nlquery.StateDone, "", elapsed)
	logger.InfoContext(ctx, "question answered",
		"row_count", inv.answer.RowCount,
		"truncated", inv.answer.Truncated,
		"duration_ms", elapsed.Milliseconds(),
	)

	return inv.answer, nil
}

func (s *QuestionService) execute(ctx context.Context, stmt nlquery.SQLStatement, session nlquery.Session) (nlquery.RowSet, error) {
	if err := s.guard.Check(stmt); err != nil {
		return nlquery.RowSet{}, nlquery.NewFailure(nlquery.StageExecution, err)
	}

	rows, err := s.gateway.Execute(ctx, stmt, session)
	if err != nil {
		if _, ok := nlquery.StageOf(err); ok {
			return nlquery.RowSet{}, err
		}
		return nlquery.RowSet{}, nlquery.NewFailure(nlquery.StageExecution, err)
	}
	return rows, nil
}

func (s *QuestionService) fail(ctx context.Context, logger *logging.Logger, inv *invocation, err error) (Answer, error) {
	stage, ok := nlquery.StageOf(err)
	if !ok {
		stage = stageForState(inv.answer.State)
		err = nlquery.NewFailure(stage, err)
	}

	inv.transition(nlquery.StateFailed)
	inv.answer.FailedStage = stage
	inv.answer.Text = ""

	elapsed := time.Since(inv.started)
	s.observer.ObserveInvocation(nlquery.StateFailed, stage, elapsed)
	logger.WarnContext(ctx, "question failed",
		"stage", string(stage),
		"sql", inv.answer.SQL,
		"duration_ms", elapsed.Milliseconds(),
		"error", err,
	)

	return inv.answer, err
}

func stageForState(state nlquery.State) nlquery.Stage {
	switch state {
	case nlquery.StateSynthesizing:
		return nlquery.StageSynthesis
	case nlquery.StateFormatting:
		return nlquery.StageFormatting
	default:
		return nlquery.StageExecution
	}
}

func (s *QuestionService) validateQuestion(question string) error {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return fmt.Errorf("%w: question is required", ErrInvalidInput)
	}
	if s.cfg.MaxQuestionLength <= 0 {
		return nil
	}
	if n := utf8.RuneCountInString(trimmed); n > s.cfg.MaxQuestionLength {
		return fmt.Errorf("%w: question has %d characters, max is %d", ErrInvalidInput, n, s.cfg.MaxQuestionLength)
	}
	return nil
}

// AnswerBatch answers independent questions concurrently, each invocation
// with its own session. Results keep the order of questions.
func (s *QuestionService) AnswerBatch(ctx context.Context, questions []string) ([]BatchAnswer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QuestionService.AnswerBatch",
		attribute.Int("nlquery.batch_size", len(questions)),
	)
	defer span.End()

	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: at least one question is required", ErrInvalidInput)
	}
	if len(questions) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch has %d questions, max is %d", ErrInvalidInput, len(questions), MaxBatchSize)
	}

	workerCount := min(s.cfg.BatchWorkers, len(questions))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]BatchAnswer, len(questions))
	var workers sync.WaitGroup
	for i, question := range questions {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			answer, err := s.Answer(ctx, question)
			results[i] = BatchAnswer{Answer: answer, Err: err}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit question to worker pool: %w", err)
		}
	}
	workers.Wait()

	failed := 0
	for _, item := range results {
		if item.Err != nil && !errors.Is(item.Err, ErrInvalidInput) {
			failed++
		}
	}
	s.logger.InfoContext(ctx, "question batch answered", "size", len(questions), "failed", failed, "workers", workerCount)

	return results, nil
}
