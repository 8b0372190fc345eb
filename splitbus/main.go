// Package main provides the splitbus command.
package main

import "github.com/sarchlab/splitbus/splitbus/cmd"

func main() {
	cmd.Execute()
}
