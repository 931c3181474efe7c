// Package script turns console scripts (YAML or JSON) into a command registry.
//
// A script names the prompt, the banner seeded into a fresh console, the immediate
// commands, and the pipelines. Lines may be written as bare strings or as {text, tag}
// maps; step delays are duration strings ("600ms") or bare integers in milliseconds.
//
//	name: demo
//	prompt: "demo$"
//	banner:
//	  - {text: "Demo Console", tag: banner}
//	commands:
//	  - token: status
//	    lines: ["ALL GREEN"]
//	pipelines:
//	  - name: deploy
//	    delay: 500ms
//	    preamble: [{text: "> starting", tag: status}]
//	    steps: ["step1", "step2"]
//	help:
//	  token: help
//
// The builtin scripts (prime, essence, gradle, apk) and the boot sequence are embedded.
package script
