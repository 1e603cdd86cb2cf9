// Command fleetctl runs maintenance tasks against the fleet database:
// schema migrations, demo data and the integrity audit.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
