package main

import "github.com/cmmoran/apitypegen/cmd"

var version = "dev"

func main() {
	cmd.Execute(version)
}
