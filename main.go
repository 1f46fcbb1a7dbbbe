package main

import "github.com/crosti/buyerform/cmd"

func main() {
	cmd.Execute()
}
