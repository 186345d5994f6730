package components

import (
	"labreserve/internal/pkg/clock"
	"labreserve/internal/usecase"
	"labreserve/internal/usecase/commands"
	"labreserve/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		commands.NewReservationCommands,
		commands.NewAuthCommands,
		commands.NewUserCommands,
		commands.NewLabCommands,
		queries.NewReservationQueries,
		queries.NewLabQueries,
		queries.NewUserQueries,
		usecase.NewTokenValidator,
	),
)
