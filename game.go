package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/spriterkit/anim"
	"github.com/milk9111/spriterkit/render"
	"github.com/milk9111/spriterkit/scenes"
)

const (
	baseWidth  = 640
	baseHeight = 480
)

type Game struct {
	frames int
	debug  bool

	sceneName string
	scene     *scenes.SceneSpec
	stage     *stage
	watcher   *scenes.Watcher
}

func NewGame(sceneName string, debug bool) (*Game, error) {
	g := &Game{sceneName: sceneName, debug: debug}
	if err := g.load(); err != nil {
		return nil, err
	}
	g.watch()
	return g, nil
}

func newLoader(fsys fs.FS) anim.TextureLoader {
	return render.NewLoader(fsys, ".")
}

func (g *Game) load() error {
	spec, err := scenes.LoadScene(g.sceneName)
	if err != nil {
		return err
	}
	st, err := newStage(spec, newLoader)
	if err != nil {
		return err
	}
	g.stage.release()
	g.scene = spec
	g.stage = st
	return nil
}

// watch starts watching the scene directory and the SCML directory when they
// exist on disk. Without them the viewer runs from the embedded files.
func (g *Game) watch() {
	var dirs []string
	if info, err := os.Stat(scenes.Dir); err == nil && info.IsDir() {
		dirs = append(dirs, scenes.Dir, filepath.Join(scenes.Dir, "scripts"))
	}
	if g.scene.File != "" {
		dirs = append(dirs, filepath.Dir(g.scene.File))
	}
	if len(dirs) == 0 {
		return
	}
	w, err := scenes.NewWatcher(dirs...)
	if err != nil {
		log.Printf("viewer: hot reload disabled: %v", err)
		return
	}
	g.watcher = w
}

func (g *Game) reload(changed string) {
	render.ClearImages()
	if err := g.load(); err != nil {
		log.Printf("viewer: reload after %s: %v", changed, err)
		return
	}
	log.Printf("viewer: reloaded %s after %s changed", g.sceneName, changed)
}

func (g *Game) Update() error {
	g.frames++

	if g.watcher != nil {
		select {
		case name, ok := <-g.watcher.Events:
			if ok {
				g.reload(name)
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("viewer: watch: %v", err)
			}
		default:
		}
	}

	g.handleInput()
	g.stage.update(1 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.stage.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.stage.toggleLoop()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.stage.reverse()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.stage.nextAnimation()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.stage.changeSpeed(speedStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.stage.changeSpeed(-speedStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.scene.Background.Color)

	for _, a := range g.stage.actors {
		a.root.Draw(screen, actorGeoM(a), 1)
	}

	if g.debug || g.scene.Debug {
		drawSkeletons(screen, g.stage)
		ebitenutil.DebugPrint(screen, g.status())
	}
}

func (g *Game) status() string {
	text := fmt.Sprintf("Scene: %s    Frames: %d    FPS: %.2f", g.sceneName, g.frames, ebiten.ActualFPS())
	if g.stage.paused {
		text += "    paused"
	}
	for i, a := range g.stage.actors {
		p := a.player
		text += fmt.Sprintf("\n%d %s/%s %.2f/%.2fs speed %.2f loop %v %s",
			i, p.Entity().Name, p.CurrentAnimationName(), p.CurrentAnimationTime(), p.AnimationLength(),
			p.AnimationSpeed(), p.LoopAnimation(), p.State())
	}
	return text
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.stage.release()
}

func actorGeoM(a *actor) ebiten.GeoM {
	return render.ScreenGeoM(a.spec.X, a.spec.Y, a.spec.Scale)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
