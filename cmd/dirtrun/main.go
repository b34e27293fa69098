// Command dirtrun is the entry point for the multi-application RPC service
// host (§6 "CLI").
package main

import (
	"fmt"
	"os"

	"github.com/Montana/dirt/cmd/dirtrun/commands"
	"github.com/Montana/dirt/rpc"
	"github.com/Montana/dirt/rpc/grpcbinding"

	// Blank-imported so each example app's init() registers its app_class
	// factory with the app package before Execute parses a settings
	// document naming it (§6 "app factory registry").
	_ "github.com/Montana/dirt/examples/accountapp"
	_ "github.com/Montana/dirt/examples/firstapp"
	_ "github.com/Montana/dirt/examples/notifyapp"
	_ "github.com/Montana/dirt/examples/secondapp"
	_ "github.com/Montana/dirt/examples/sessionapp"
)

func init() {
	// The native dirtrpc:// scheme registers itself; grpc:// is opt-in per
	// §9's "alternative binding" design so a settings document never pays
	// for grpc unless it actually names a grpc:// bind/remote URL.
	grpcbinding.Register(rpc.DefaultRegistry)
}

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
