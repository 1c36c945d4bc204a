package modules

import (
	"github.com/aisleworks/aisle/modules/core"
	"github.com/aisleworks/aisle/modules/staffing"
	"github.com/aisleworks/aisle/pkg/application"
)

// BuiltInModules lists the modules in registration order. Core must come
// first: staffing resolves its notification service during Register.
var BuiltInModules = []application.Module{
	core.NewModule(),
	staffing.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	for _, module := range mods {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
