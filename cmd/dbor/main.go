package main

import (
	"dbor/cmd/dbor/cmd"
)

func main() {
	cmd.Execute()
}
