package main

import "github.com/casthub/catadm/cmd"

func main() {
	cmd.Execute()
}
