// Command pagedmem runs scripts of memory requests against a simulated paged
// memory.
package main

import "github.com/sarchlab/pagedmem/pagedmem/cmd"

func main() {
	cmd.Execute()
}
