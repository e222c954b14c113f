package companion

import (
	"reflect"

	"github.com/vk/cookery/pkg/registry"
)

// registryImportPath is the import path interpreted companions use.
const registryImportPath = "github.com/vk/cookery/pkg/registry"

// Symbols exports the registration API to the interpreter. Keys follow the
// interpreter's "import/path/name" convention.
var Symbols = map[string]map[string]reflect.Value{
	registryImportPath + "/registry": {
		// functions
		"New":          reflect.ValueOf(registry.New),
		"None":         reflect.ValueOf(registry.None),
		"Structured":   reflect.ValueOf(registry.Structured),
		"Pattern":      reflect.ValueOf(registry.Pattern),
		"MustPattern":  reflect.ValueOf(registry.MustPattern),
		"ExposedName":  reflect.ValueOf(registry.ExposedName),
		"WithBasePath": reflect.ValueOf(registry.WithBasePath),
		"BasePath":     reflect.ValueOf(registry.BasePath),
		"ResolvePath":  reflect.ValueOf(registry.ResolvePath),
		"WithOutput":   reflect.ValueOf(registry.WithOutput),
		"Output":       reflect.ValueOf(registry.Output),

		// constants
		"RoleAction":         reflect.ValueOf(registry.RoleAction),
		"RoleSubject":        reflect.ValueOf(registry.RoleSubject),
		"RoleCondition":      reflect.ValueOf(registry.RoleCondition),
		"ContractNone":       reflect.ValueOf(registry.ContractNone),
		"ContractStructured": reflect.ValueOf(registry.ContractStructured),
		"ContractPattern":    reflect.ValueOf(registry.ContractPattern),

		// variables
		"ErrArgumentPatternMismatch": reflect.ValueOf(&registry.ErrArgumentPatternMismatch).Elem(),
		"ErrWrongArgumentArity":      reflect.ValueOf(&registry.ErrWrongArgumentArity).Elem(),

		// types
		"Arguments":    reflect.ValueOf((*registry.Arguments)(nil)),
		"Binding":      reflect.ValueOf((*registry.Binding)(nil)),
		"Contract":     reflect.ValueOf((*registry.Contract)(nil)),
		"ContractKind": reflect.ValueOf((*registry.ContractKind)(nil)),
		"Func":         reflect.ValueOf((*registry.Func)(nil)),
		"ModuleFunc":   reflect.ValueOf((*registry.ModuleFunc)(nil)),
		"Registry":     reflect.ValueOf((*registry.Registry)(nil)),
		"Role":         reflect.ValueOf((*registry.Role)(nil)),
	},
}
