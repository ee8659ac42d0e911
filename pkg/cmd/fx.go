package cmd

import "go.uber.org/fx"

var Module = fx.Module("cli",
	fx.Provide(
		fx.Annotate(compare, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(generate, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(stats, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
