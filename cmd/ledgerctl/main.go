// Command ledgerctl is the operator CLI for the debt ledger. It works on the
// database directly, so it must run on the host that owns DB_PATH.
package main

import (
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}
