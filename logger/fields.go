package logger

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldStage     = "stage"
	FieldStateKey  = "state_key"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldSamples   = "samples"
	FieldMaxLength = "max_length"
	FieldVocabSize = "vocab_size"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("fitted", logger.Fields(logger.FieldSamples, n))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}
