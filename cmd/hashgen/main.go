// hashgen gera o hash bcrypt para ADMIN_PASSWORD_HASH.
// A senha é lida do terminal sem eco, ou da primeira linha do stdin quando não é um terminal.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

const cost = 12

// Pontos de troca para testes.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

func main() {
	pw, err := readSecret(os.Stdin, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
	hash, err := generate(pw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

func readSecret(in *os.File, w io.Writer) ([]byte, error) {
	fd := int(in.Fd())
	if isTerminal(fd) {
		fmt.Fprint(w, "Admin password: ")
		pw, err := readPassword(fd)
		fmt.Fprintln(w)
		return pw, err
	}
	return readLine(in)
}

func readLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func generate(pw []byte) (string, error) {
	if len(pw) == 0 {
		return "", errors.New("senha vazia")
	}
	hash, err := bcrypt.GenerateFromPassword(pw, cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
