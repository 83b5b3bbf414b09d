// Command profilectl administers profiles: catalog setup, profile actions,
// user assignment and authorization checks.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:]))
}
