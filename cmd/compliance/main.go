package main

import "github.com/emrgen/compliance/cmd"

func main() {
	cmd.Execute()
}
