// Package registry provides the central "glue" between sentence-language
// source and Go code.
//
// The Registry maps the names used in statements (actions, subjects and
// conditions) to Go functions. Every registration declares an argument
// contract and an explicit parameter count; the Binding produced by a
// registration turns the statement's raw argument text (or structured
// literal) into the positional arguments of the function and refuses calls
// whose assembled argument count differs from the declared one.
//
// Function sets are added either directly through RegisterAction,
// RegisterSubject and RegisterCondition, or by implementing Module, whose
// Register method receives the registry explicitly.
package registry
