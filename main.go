package main

import "aigenio/cmd"

func main() {
	cmd.Execute()
}
