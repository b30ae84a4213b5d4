package main

import "wordle-tracker/cmd"

func main() {
	cmd.Execute()
}
