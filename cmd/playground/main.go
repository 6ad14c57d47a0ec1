// Command playground is a terminal code playground: an editor and a live
// Result/Console pane side by side.
package main

import (
	"context"
	"os"

	"github.com/spf13/afero"
)

func main() {
	if err := newRootCmd(afero.NewOsFs()).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
