package main

import "github.com/iksnae/docchat/cmd"

func main() {
	cmd.Execute()
}
