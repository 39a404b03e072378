package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	sceneName := flag.String("scene", "basic", "scene name in scenes/ (basename, .yaml optional)")
	debug := flag.Bool("debug", false, "draw bone origins and playback state")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth*2, baseHeight*2)
	ebiten.SetWindowTitle("spriterkit")

	game, err := NewGame(*sceneName, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
