package sequence

import "go.uber.org/fx"

var Module = fx.Module("sequence.allocator",
	fx.Provide(Provide),
)
