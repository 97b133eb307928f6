package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldCandidateID is the structured log field key for the candidate identifier.
	FieldCandidateID = "candidate_id"
	// FieldQuestionSetID is the structured log field key for the question set identifier.
	FieldQuestionSetID = "question_set_id"
	// FieldEmail is the structured log field key for the login email.
	FieldEmail = "email"
	// FieldUpstream names the remote collaborator a log entry is about.
	FieldUpstream = "upstream"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CandidateFields describes a candidate. Empty values are dropped.
func CandidateFields(candidateID, email string) []zap.Field {
	return StringFields(
		StringField{Key: FieldCandidateID, Value: candidateID},
		StringField{Key: FieldEmail, Value: email},
	)
}

// WithCandidate attaches the candidate fields to the provided logger.
func WithCandidate(logger *zap.Logger, candidateID, email string) *zap.Logger {
	return WithFields(logger, CandidateFields(candidateID, email)...)
}

// Upstream tags an entry with the remote collaborator's name.
func Upstream(name string) zap.Field {
	return zap.String(FieldUpstream, name)
}
