// =============================================================================
// Ennovatis Header Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point of the konverter CLI. It delegates to the
// Cobra commands in the cmd package.
//
// USAGE:
//   konverter                  - Pick a folder and convert it interactively
//   konverter folder [ROOT]    - Convert every file below ROOT
//   konverter files [FILE...]  - Convert single files
//   konverter header TEXT...   - Show how header texts are converted
//   konverter config           - Print the effective configuration
//   konverter version          - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Conversion logic (not for external import)
//   - pkg/utils/     : File discovery, naming and atomic writes
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/ennovatis-konverter/cmd"
)

func main() {
	cmd.Execute()
}
