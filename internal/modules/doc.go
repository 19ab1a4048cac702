// Package modules contains the application's features.
//
// Each subdirectory is a module implementing `module.Module`. Modules are
// listed in `internal/app/modules.go` and booted on the server's root group.
package modules
