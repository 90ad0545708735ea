package main

import "github.com/moyu-x/archyve/cmd"

func main() {
	cmd.Execute()
}
