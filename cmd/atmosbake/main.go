// Command atmosbake bakes atmospheric scattering lookup tables.
package main

import (
	"os"

	"github.com/Carmen-Shannon/oxy-atmos/bakeutil"
)

func main() {
	if err := bakeutil.Root.Execute(); err != nil {
		os.Exit(1)
	}
}
