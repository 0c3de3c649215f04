package main

import (
	"deliverylog/cmd/deliverylog/cmd"
)

func main() {
	cmd.Execute()
}
