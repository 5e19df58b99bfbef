package main

import "github.com/example/slot-reserve/cmd"

func main() {
	cmd.Execute()
}
