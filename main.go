package main

import "github.com/ledgerline/statement-recon/cmd"

func main() {
	cmd.Execute()
}
