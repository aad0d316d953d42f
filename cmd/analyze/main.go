// Command analyze runs the options expected-value analyzer (C6) over
// a chain stored in PostgreSQL, one subcommand per strategy.
package main

func main() {
	Execute()
}
