// Campusnav - accessibility-aware walking routes for campus.
//
// Campusnav models a campus path network as an attributed graph and
// finds routes tailored to mobility needs: avoiding steep slopes,
// staying under shelter, or passing rest stops along the way.
package main

import (
	"fmt"
	"os"

	"github.com/uninav/campusnav/cmd"
)

func main() {
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
