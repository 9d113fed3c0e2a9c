/*
main.go - cpicalc entry point

COMMANDS:
  serve      Run the HTTP API
  import     Append index values from YAML seed files
  change     Percent change between two months
  series     Monthly trajectory
  classify   Currency era of a month

EXAMPLES:
  # Serve from a local SQLite file, seeding it on first start
  SEED_PATH=./data/seed.yaml cpicalc serve

  # Compute without a database
  cpicalc change --driver memory --seed ./data/seed.yaml --start 1995-01 --end 2024-12

SEE ALSO:
  - cli/: Command implementations
  - config/config.go: Environment keys
*/
package main

import "github.com/warp/cpi-engine/cli"

func main() {
	cli.Execute()
}
