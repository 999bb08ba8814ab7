package main

import "github.com/specgate/specgate/pkg/cli"

func main() {
	cli.Execute()
}
