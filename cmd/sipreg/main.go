// Command sipreg diagnoses SIP server connectivity and inspects transport settings.
package main

import "github.com/ghettovoice/sipreg/cmd/sipreg/cmd"

func main() {
	cmd.Execute()
}
