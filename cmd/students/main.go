// main is the client for the students backend: one-shot subcommands for
// scripting and an interactive terminal UI.
//
//	students list
//	students add --name Asha --email asha@test.com --phone 555 --address "12 Hill Rd"
//	students update 3 --phone 556
//	students delete 3 --yes
//	students tui
//
// The backend URL comes from --api-url, the config file or STUDENTS_API_URL
// (a .env file in the working directory is loaded first).
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
