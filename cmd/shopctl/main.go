// Command shopctl is a terminal storefront: it browses the catalog, keeps a
// local cart, places orders and drives the admin product form.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
