package app

import (
	"github.com/vk/cookery/modules/core"
	cookeryhttp "github.com/vk/cookery/modules/http"
	"github.com/vk/cookery/modules/socketio"
	"github.com/vk/cookery/pkg/registry"
)

// coreModules is the definitive list of all modules that are compiled into
// the cookery binary.
var coreModules = []registry.Module{
	&core.Module{},
	&cookeryhttp.Module{},
	&socketio.Module{},
}
