// Package app contains the application logic behind the command line. It
// owns the configuration, the logger and the engine, and implements the
// run, eval, watch, REPL and scaffold commands independently of any flag
// parsing.
package app
