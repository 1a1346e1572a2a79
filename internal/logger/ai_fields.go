package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured log field keys shared by everything that talks to an AI
// provider, so log queries can filter on one consistent name.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
)

// StringField is one candidate key/value pair for structured logging.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the pairs into zap fields, dropping entries whose
// key or value is blank so log entries stay compact.
func StringFields(fields ...StringField) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		key := strings.TrimSpace(f.Key)
		value := strings.TrimSpace(f.Value)
		if key == "" || value == "" {
			continue
		}
		out = append(out, zap.String(key, value))
	}
	return out
}

// WithFields attaches fields to the logger, tolerating a nil logger by
// substituting a no-op one.
func WithFields(log *zap.Logger, fields ...zap.Field) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}

// CommonFields builds the provider/model field pair, omitting blanks.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the provider/model fields to the logger.
func WithCommonFields(log *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(log, CommonFields(provider, model)...)
}
