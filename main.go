package main

import "github/chapool/go-sweeper/cmd"

func main() {
	cmd.Execute()
}
