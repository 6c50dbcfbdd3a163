// =============================================================================
// basketminer - Main Entry Point
// =============================================================================
//
// USAGE:
//   basketminer recommend   - Mine and rank the item groups bought together
//   basketminer validate    - Check configuration and input without mining
//   basketminer version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Loading, filtering, encoding, mining and export
//   - pkg/           : Report file writers
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/basketminer/cmd"
)

func main() {
	cmd.Execute()
}
