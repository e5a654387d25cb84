package main

import "github.com/frahmantamala/support-desk/cmd"

func main() {
	cmd.Execute()
}
