package main

import "github.com/rollscan/rollscan/cmd/rollscan/cmd"

func main() {
	cmd.Execute()
}
