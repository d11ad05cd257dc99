// Command papelera maintains the trash of the susceptibles registry.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/clinica/susceptibles/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "papelera:", err)
		os.Exit(1)
	}
}
