// Command sqlresource builds the SQL statements of a resource model described
// in a YAML model file, prints them with their bound arguments and optionally
// runs them against the configured database.
//
// Usage:
//
//	sqlresource [flags] <command>
//
// Commands:
//   - insert, update, delete, select: build (and with --exec, run) a statement
//   - config show: print the effective configuration
package main

func main() {
	Execute()
}
