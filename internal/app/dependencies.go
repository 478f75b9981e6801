package app

import (
	"fmt"
	"io"
	"os"

	"github.com/flavioribeiro/nalsplit/internal/controllers"
	"github.com/flavioribeiro/nalsplit/internal/controllers/profiles"
	"github.com/flavioribeiro/nalsplit/internal/entities"
	"github.com/flavioribeiro/nalsplit/internal/mapper"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Dependencies(quiet bool) fx.Option {
	var c entities.Config
	err := envconfig.Process("nalsplit", &c)
	if err != nil {
		return fx.Error(fmt.Errorf("%w: %w", entities.ErrConfig, err))
	}
	if quiet {
		c.ProgressMarkers = false
	}

	return fx.Options(
		// Codec profiles
		fx.Provide(profiles.NewH264),
		fx.Provide(profiles.NewH265),

		// Controllers
		fx.Provide(controllers.NewSegmenterController),
		fx.Provide(controllers.NewSplitController),

		// Mappers
		fx.Provide(mapper.NewMapper),

		// Logging, Config, Progress constructors
		fx.Provide(func() (*zap.SugaredLogger, error) {
			var logger *zap.Logger
			var err error
			if c.Debug {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			if err != nil {
				return nil, err
			}
			return logger.Sugar(), nil
		}),
		fx.Provide(func() *entities.Config {
			return &c
		}),
		fx.Provide(
			fx.Annotate(
				func() io.Writer { return os.Stdout },
				fx.ResultTags(`name:"progress"`),
			),
		),
	)
}
