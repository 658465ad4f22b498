package netric

import (
	"maps"
	"slices"

	"github.com/hashicorp/go-hclog"
)

// HCLogAdapter adapts an hclog.Logger to Logger.
type HCLogAdapter struct {
	logger hclog.Logger
}

// NewHCLogAdapter wraps logger.
func NewHCLogAdapter(logger hclog.Logger) *HCLogAdapter {
	return &HCLogAdapter{logger: logger}
}

func (a *HCLogAdapter) Debug(msg string, fields map[string]interface{}) {
	a.logger.Debug(msg, keyValues(fields)...)
}

func (a *HCLogAdapter) Info(msg string, fields map[string]interface{}) {
	a.logger.Info(msg, keyValues(fields)...)
}

func (a *HCLogAdapter) Warn(msg string, fields map[string]interface{}) {
	a.logger.Warn(msg, keyValues(fields)...)
}

func (a *HCLogAdapter) Error(msg string, fields map[string]interface{}) {
	a.logger.Error(msg, keyValues(fields)...)
}

// keyValues flattens fields into hclog's alternating key/value form, sorted
// by key so output is stable.
func keyValues(fields map[string]interface{}) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, key, fields[key])
	}

	return args
}
