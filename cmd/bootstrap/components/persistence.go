package components

import (
	"labreserve/internal/infra/readstore"
	"labreserve/internal/infra/uow"
	"labreserve/internal/usecase/queries"
	"labreserve/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		uow.NewPostgresUoW,
		func(pool *pgxpool.Pool) shared.DBTX { return pool },
		readstore.NewReservationReadStore,
		readstore.NewLabReadStore,
		readstore.NewUserReadStore,
		func(rs *readstore.ReservationReadStore) queries.ReservationViewRepo { return rs },
		func(rs *readstore.LabReadStore) queries.LabViewRepo { return rs },
		func(rs *readstore.UserReadStore) queries.UserViewRepo { return rs },
		func(rs *readstore.UserReadStore) queries.StudentExistenceRepo { return rs },
	),
)
