/*
Package aria is a scripted interactive console engine.

A console accepts one free-text line at a time, keeps a scrollback transcript, and answers
each command either immediately (a fixed list of lines) or by running a pipeline: an ordered
script of lines released one after another on a timer. While a pipeline runs the console is
busy and every submission is dropped, so narrations never interleave.

# Concept

Consoles are data. A script (YAML or JSON, see package script) names the prompt, the banner,
the commands and the pipelines; the engine is the same for every variant. Hosts drive the
console through a single input boundary, SubmitCommand, and read the transcript back with
CurrentState or Subscribe. The text runner, the TUI, the HTTP server and the MCP server in
this module are all such hosts.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/aria"
	)

	func main() {
		console, err := aria.New(aria.WithScript("essence"))
		if err != nil {
			log.Fatal(err)
		}
		defer console.Close()

		console.SubmitCommand("aria-sync")
		<-console.Done()

		for _, line := range console.CurrentState().Lines {
			fmt.Println(line.Text)
		}
	}
*/
package aria
