package clock

import "go.uber.org/fx"

// Module provides the wall clock. Tests substitute a fixed clock instead.
var Module = fx.Module("clock",
	fx.Provide(func() Clock {
		return SystemClock{}
	}),
)
