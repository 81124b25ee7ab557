package scheduler

import (
	"context"

	"go.uber.org/fx"

	"github.com/smallbiznis/crm/internal/maintenance"
)

var Module = fx.Module("scheduler",
	maintenance.Module,
	fx.Provide(New),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: s.Stop,
	})
}
