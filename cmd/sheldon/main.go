// Command sheldon is a thin CLI wrapper around the locking and rendering
// pipeline implemented in the root package.
package main

func main() {
	Execute()
}
