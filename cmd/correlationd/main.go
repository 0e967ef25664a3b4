// Command correlationd serves HTTP endpoints that stamp every request with
// an X-Request-ID and prints identifiers on demand.
package main

import "github.com/nimburion/correlation/pkg/cli"

func main() {
	cli.Execute(cli.NewServiceCommand(cli.ServiceCommandOptions{
		Name:        "correlationd",
		Description: "Request correlation service",
		EnvPrefix:   "CORRELATIOND",
	}))
}
