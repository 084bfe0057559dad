// Package main provides the entry point for the pwdfinder CLI.
//
// pwdfinder recovers a password from its hash by testing every word of a
// dictionary file. The file is split into one partition per worker and the
// workers stop as soon as one of them finds the password.
//
// Usage:
//
//	pwdfinder <dictionary> <target-hash>
//	pwdfinder check <password> <hash>
//	pwdfinder crypt <password>
//
// See --help for all available options.
package main

func main() {
	Execute()
}
