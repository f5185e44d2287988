package mocks

import (
	"context"

	"depfetch/shared/observability/types"
)

// NopLogger discards every entry. Use it where log output is not under test.
type NopLogger struct{}

func (NopLogger) Info(context.Context, string, types.Fields)         {}
func (NopLogger) Error(context.Context, string, error, types.Fields) {}
func (NopLogger) Warn(context.Context, string, types.Fields)         {}
func (NopLogger) Debug(context.Context, string, types.Fields)        {}
func (n NopLogger) WithFields(types.Fields) types.Logger             { return n }

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) RecordSuccess(string)           {}
func (NopMetrics) RecordError(string, string)     {}
func (NopMetrics) RecordDuration(string, float64) {}
func (NopMetrics) RecordFileSize(string, int64)   {}
func (NopMetrics) StartOperation(string)          {}
func (NopMetrics) EndOperation(string)            {}
