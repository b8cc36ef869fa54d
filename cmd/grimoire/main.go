// Command grimoire is a local retrieval-augmented question-answering CLI.
package main

import (
	"github.com/custodia-labs/grimoire-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
