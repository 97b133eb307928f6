package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/assessor/internal/domain"
	"github.com/spigell/assessor/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Evaluator grades submissions with a Gemini model.
type Evaluator struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewEvaluator(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Evaluator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Evaluator{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, submission domain.Submission) (*domain.Evaluation, error) {
	if len(submission.Questions) == 0 {
		return nil, fmt.Errorf("%w: submission has no questions", domain.ErrValidation)
	}

	submissionJSON, err := json.MarshalIndent(submission, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal submission payload: %w", err)
	}

	prompt := buildPrompt(string(submissionJSON))

	e.logger.Debug("gemini generate content request",
		zap.String("candidate_id", submission.CandidateID),
		zap.String("question_set_id", submission.QuestionSetID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %v", domain.ErrUpstreamUnavailable, err)
	}

	e.logger.Debug("gemini generate content response",
		zap.String("candidate_id", submission.CandidateID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildPrompt(submissionJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Submission:\n{{SUBMISSION_JSON}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{SUBMISSION_JSON}}", submissionJSON)
}

func parseResponse(raw string) (*domain.Evaluation, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("%w: parse gemini response: %v", domain.ErrUpstreamUnavailable, err)
	}

	return &domain.Evaluation{
		Score:       optionalFloat(data["score"]),
		MaxScore:    optionalFloat(data["max_score"]),
		Percentage:  optionalFloat(data["percentage"]),
		Status:      coerceString(data["status"]),
		RawFeedback: coerceString(data["raw_feedback"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func optionalFloat(v any) *float64 {
	f := coerceFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
