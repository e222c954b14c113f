package cookery

import (
	"github.com/vk/cookery/internal/companion"
	"github.com/vk/cookery/internal/engine"
	"github.com/vk/cookery/internal/parser"
	"github.com/vk/cookery/internal/resolver"
	"github.com/vk/cookery/pkg/registry"
)

// Errors returned by the engine. Match them with errors.Is.
var (
	ErrSyntax                  = parser.ErrSyntax
	ErrCannotImportModule      = resolver.ErrCannotImportModule
	ErrImportCycle             = resolver.ErrImportCycle
	ErrMissingImplementation   = resolver.ErrMissingImplementation
	ErrInvalidCompanion        = companion.ErrInvalidCompanion
	ErrUnknownSubject          = engine.ErrUnknownSubject
	ErrUnknownAction           = engine.ErrUnknownAction
	ErrUnknownCondition        = engine.ErrUnknownCondition
	ErrCallTimeout             = engine.ErrCallTimeout
	ErrArgumentPatternMismatch = registry.ErrArgumentPatternMismatch
	ErrWrongArgumentArity      = registry.ErrWrongArgumentArity
)

// SyntaxError describes where a module stopped parsing.
type SyntaxError = parser.SyntaxError
