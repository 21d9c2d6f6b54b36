// Package cmd implements the command-line interface of rKV. It provides a
// hierarchical command structure with operations for running the server and
// interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - kv: Client commands (ping, set, get, del, exit), the interactive shell (repl)
//     and a performance testing tool (perf)
//   - serve: Command for starting and configuring the rKV server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set with an environment variable RKV_<FLAG> (dashes become
// underscores, e.g. RKV_AOF_PATH), in a .env file or in a config file (--config).
//
// See rkv -help for a list of all commands.
package cmd
