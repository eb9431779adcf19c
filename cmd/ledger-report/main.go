// Package main is the entry point for the ledger-report CLI.
package main

import (
	"os"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/cmd/ledger-report/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
