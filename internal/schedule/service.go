package schedule

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const (
	msgAllFilled     = "すべての項目が正常に入力されました！"
	msgFillFailed    = "スケジュールの入力に失敗しました。データを確認してください。"
	formFieldsToFill = 3 // title, memo, candidates
)

// Result is the caller-facing outcome of a submission
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submission is the outcome of filling the candidate form
type Submission struct {
	Request    Request
	Entries    []Entry
	Lines      []string
	Text       string // generated lines only
	Candidates string // final candidate field content after overwrite/append
	Filled     int
	Total      int
	Result     Result
}

// Service validates requests and fills the candidate form
type Service struct {
	parser    *Parser
	generator *Generator
	logger    *zap.Logger
}

// NewService creates a new Service
func NewService(parser *Parser, generator *Generator, logger *zap.Logger) *Service {
	return &Service{
		parser:    parser,
		generator: generator,
		logger:    logger,
	}
}

// Generator returns the underlying generator
func (s *Service) Generator() *Generator {
	return s.generator
}

// Parse validates form without generating anything
func (s *Service) Parse(form FormData) (Request, error) {
	return s.parser.Parse(form)
}

// Submit validates form, generates the candidate lines and merges them with
// the existing candidate text. Only invalid requests return an error.
func (s *Service) Submit(ctx context.Context, form FormData, existing string) (*Submission, error) {
	req, err := s.parser.Parse(form)
	if err != nil {
		s.logger.Info("Schedule request rejected", zap.Error(err))
		return nil, err
	}

	entries := s.generator.Entries(ctx, req)
	lines := s.generator.Lines(entries)

	sub := &Submission{
		Request: req,
		Entries: entries,
		Lines:   lines,
		Text:    strings.Join(lines, "\n"),
		Total:   formFieldsToFill,
	}
	sub.Candidates = mergeCandidates(existing, sub.Text, req.Overwrite)

	// Title and memo are always written; the candidate field only counts
	// when there was something to write.
	sub.Filled = 2
	candidatesFilled := sub.Text != ""
	if candidatesFilled {
		sub.Filled++
	}
	sub.Result = Result{Success: true, Message: msgAllFilled}
	if !candidatesFilled {
		sub.Result = Result{Success: false, Message: msgFillFailed}
	}

	s.logger.Info("Schedule submitted",
		zap.String("event_title", req.EventTitle),
		zap.Int("lines", len(lines)),
		zap.Int("filled", sub.Filled),
		zap.Bool("success", sub.Result.Success))

	return sub, nil
}

// mergeCandidates appends generated to existing unless overwrite is set
func mergeCandidates(existing, generated string, overwrite bool) string {
	if overwrite || existing == "" {
		return generated
	}
	if generated == "" {
		return existing
	}
	return existing + "\n" + generated
}
