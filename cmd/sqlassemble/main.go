// Package main provides sqlassemble, a CLI around the statement builder.
//
// The CLI supports:
//   - build: Render a YAML recipe into SQL text, bind values and type signature
//   - exec: Render a recipe and run it against MySQL through the executor
//   - journal: Show recently executed statements from the shared journal
//
// Usage:
//
//	sqlassemble [flags] <command>
//
// Database, prefix and journal settings come from the environment (or .env).
package main

func main() {
	Execute()
}
