// One-off: go run scripts/genhash.go <password>
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := "admin"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	// Same work factor the server uses by default.
	h, err := bcrypt.GenerateFromPassword([]byte(password), 6)
	if err != nil {
		panic(err)
	}
	fmt.Print(string(h))
}
