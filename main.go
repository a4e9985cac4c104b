package main

import "github.com/josephgoksu/factwing/cmd"

func main() {
	cmd.Execute()
}
