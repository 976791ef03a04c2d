package main

import "github.com/deploymenttheory/go-gptinfo/cmd"

func main() {
	cmd.Execute()
}
