package aria_test

import (
	"fmt"
	"log"
	"time"

	"github.com/aretw0/aria"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/registry"
)

// ExampleNew runs a builtin console at a fast pace and prints the transcript.
func ExampleNew() {
	console, err := aria.New(aria.WithScript("essence"), aria.WithPace(time.Millisecond))
	if err != nil {
		log.Fatal(err)
	}
	defer console.Close()

	console.SubmitCommand("clear")
	console.SubmitCommand("nexus-build")
	<-console.Done()

	for _, line := range console.CurrentState().Lines {
		fmt.Println(line.Text)
	}
	// Output:
	// aria@nexus:~$ nexus-build
	// > Iniciando proceso de sincronización vital...
	// > Sintonizando hilos del sistema...
	// > [MÓDULO] :esencia:compilando [80%]
	// > [MÓDULO] :nexus:vinculando [OK]
	// SINCRONIZACIÓN EXITOSA
	// El sistema está en armonía con Aria.
}

// ExampleWithRegistry builds a console from code instead of a script.
func ExampleWithRegistry() {
	reg, err := registry.NewBuilder().
		Immediate("ping", "Reply with pong", domain.PlainLines("pong")...).
		Help("help", "List commands").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	console, err := aria.New(aria.WithRegistry(reg), aria.WithPrompt(">"))
	if err != nil {
		log.Fatal(err)
	}
	defer console.Close()

	console.SubmitCommand("PING")
	console.SubmitCommand("help")
	console.SubmitCommand("pong")

	for _, line := range console.CurrentState().Lines {
		fmt.Println(line.Text)
	}
	// Output:
	// > PING
	// pong
	// > help
	//   clear - Clear the console
	//   ping  - Reply with pong
	//   help  - List commands
	// > pong
	// unrecognized command
}
