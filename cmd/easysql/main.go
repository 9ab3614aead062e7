// Command easysql inspects and manages tables declared in a YAML
// declaration file.
package main

import (
	"os"

	"github.com/ashenguard/easysql/cmd/easysql/commands"
	"github.com/ashenguard/easysql/cmd/easysql/internal/ui"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		ui.PrintError("%v", err)
		os.Exit(1)
	}
}
