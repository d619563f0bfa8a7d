// Command scratchplayer loads an sb3 project archive and runs it in an
// Ebitengine window.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	scratch "github.com/MakotoE/scratch-sub000"
)

func main() {
	title := flag.String("title", "scratchplayer", "window title")
	width := flag.Int("width", 480, "window width")
	height := flag.Int("height", 360, "window height")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: scratchplayer [flags] project.sb3")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *title, *width, *height); err != nil {
		log.Fatal(err)
	}
}

func run(path, title string, width, height int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("scratchplayer: open project: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("scratchplayer: stat project: %w", err)
	}

	project, err := scratch.LoadProjectFromZip(f, info.Size())
	if err != nil {
		return fmt.Errorf("scratchplayer: load project: %w", err)
	}

	sink := scratch.NewEbitenSink()
	vm, err := scratch.NewVM(project, sink)
	if err != nil {
		return fmt.Errorf("scratchplayer: build vm: %w", err)
	}

	return scratch.Run(vm, sink, scratch.RunConfig{
		Title:  title,
		Width:  width,
		Height: height,
	})
}
