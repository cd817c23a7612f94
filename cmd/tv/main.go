// Command tv browses and reorganizes outline trees in the terminal.
package main

func main() {
	execute()
}
