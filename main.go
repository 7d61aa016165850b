package main

import "github.com/Facets-cloud/nightly-prune/cmd"

func main() {
	cmd.Execute()
}
