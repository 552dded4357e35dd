// Command crumbd runs the guided sourdough bake tracker: an HTTP API over a
// SQLite database, plus maintenance subcommands for configuration and
// inspecting recorded bakes.
package main
