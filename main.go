package main

import "github.com/srgchrksv/ieltspodcaster/cli"

func main() {
	cli.Execute()
}
