package main

import (
	"os"

	conciergecmder "github.com/executehq/concierge/cmd/concierge"
)

func main() {
	cmd := conciergecmder.NewConciergeCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
