package main

import "github.com/aware-network/aware-kernel/cmd"

func main() {
	cmd.Execute()
}
