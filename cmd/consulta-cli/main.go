package main

import (
	"context"
	"fmt"
	"os"
	"pjeconsulta-backend/cmd/consulta-cli/commands"
)

func main() {
	err := commands.Execute(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
