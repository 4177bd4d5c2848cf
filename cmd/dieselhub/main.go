package main

import "github.com/dieselhub/dieselhub/pkg/cli"

func main() {
	cli.Execute()
}
