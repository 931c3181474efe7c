/*
Package domain contains the core value types of the Aria console.

It defines the display Line and its presentation Tag, the Pipeline script consumed by the
step sequencer, the CommandEntry values held by the registry, and the State snapshot the
engine exposes for rendering. This package is kept pure and free of I/O, timers and
persistence, so every other layer can share these types without pulling in adapters.

# Key Entities

  - Line: an immutable display string plus a Tag used only for styling.
  - Pipeline: a named, ordered, immutable script of (Line, delay) steps.
  - CommandEntry: what a command token resolves to (Immediate lines, a Pipeline, or Clear).
  - State: the busy flag plus a snapshot of the transcript.
*/
package domain
