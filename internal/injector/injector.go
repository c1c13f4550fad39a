//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/scenegraph/internal/config"
)

func InitializeToolkit(cfg config.Config) (*Toolkit, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
