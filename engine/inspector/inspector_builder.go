package inspector

import "go.uber.org/zap"

// InspectorBuilderOption is a functional option applied to an inspector during construction via NewInspector.
type InspectorBuilderOption func(*inspector)

// WithLogger sets the logger every change is reported to.
//
// Parameters:
//   - l: the logger, ignored when nil
//
// Returns:
//   - InspectorBuilderOption: option function to apply
func WithLogger(l *zap.Logger) InspectorBuilderOption {
	return func(in *inspector) {
		if l != nil {
			in.log = l
		}
	}
}

// WithParam sets the parameter the Up and Down keys start out nudging.
func WithParam(p Param) InspectorBuilderOption {
	return func(in *inspector) {
		if _, ok := specs[p]; ok {
			in.param = p
		}
	}
}
