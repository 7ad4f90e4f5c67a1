// Command linkhub serves, exports and deploys a link hub page.
package main

var version = "dev"

func main() {
	Execute()
}
