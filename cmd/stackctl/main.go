// Command stackctl is a command-line front end over the persisted
// package's List, Map, and Stack containers, rooted at a configured data
// directory. It exists to give the library a runnable caller without
// pulling in a network transport, which is out of scope for this project.
package main

func main() {
	Execute()
}
