package main

import "github.com/openshift-hyperfleet/kartograph-sub001/cmd"

func main() {
	cmd.Execute()
}
