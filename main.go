package main

import "camera-preset-cli/cmd"

func main() {
	cmd.Execute()
}
