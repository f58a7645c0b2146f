package main

import "github.com/tactileforge/relief/cmd/relief/cmd"

func main() {
	cmd.Execute()
}
