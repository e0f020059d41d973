// Command timelinectl is the operator CLI of the annotation service. It
// migrates the schema, inspects timelines and events, maintains table
// metadata and issues development tokens, all against the configured MySQL
// database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
