package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"sort"

	"github.com/milk9111/spriterkit/anim"
	"github.com/milk9111/spriterkit/scenes"
	"github.com/milk9111/spriterkit/spriter"
)

func main() {
	file := flag.String("file", "", "SCML file to inspect (empty for the embedded sample)")
	check := flag.Bool("check", false, "decode every texture and compare its size with the SCML")
	flag.Parse()

	fsys, name := scenes.ResolveFile(*file)
	problems, err := run(os.Stdout, fsys, name, *check)
	if err != nil {
		log.Fatal(err)
	}
	if problems > 0 {
		os.Exit(1)
	}
}

// run prints the report for the SCML file name in fsys and returns the number
// of texture problems found by the check.
func run(w io.Writer, fsys fs.FS, name string, check bool) (int, error) {
	f, err := spriter.ParseFS(fsys, name)
	if err != nil {
		return 0, err
	}
	data, err := f.AnimationData()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	m := anim.NewManager(data, nil, nil)

	fmt.Fprintf(w, "%s: scml %s, %s %s\n", name, f.Version, f.Generator, f.GeneratorVersion)
	for _, entity := range m.AllEntityNames() {
		e := m.EntityNamed(entity)
		fmt.Fprintf(w, "entity %s\n", entity)
		for _, an := range m.AllAnimationNamesForEntity(entity) {
			a, _ := e.Animation(an)
			loop := "once"
			if a.Looping {
				loop = "loop"
			}
			fmt.Fprintf(w, "  %-16s %6.3fs %s %d timelines\n", an, a.Length, loop, len(a.Timelines))
		}
	}

	textures := m.AllTextureNames()
	dirs := make([]string, 0, len(textures))
	for dir := range textures {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	fmt.Fprintln(w, "textures")
	for _, dir := range dirs {
		label := dir
		if label == "" {
			label = "."
		}
		fmt.Fprintf(w, "  %s\n", label)
		for _, file := range textures[dir] {
			fmt.Fprintf(w, "    %s\n", file)
		}
	}

	if !check {
		return 0, nil
	}
	return checkTextures(w, fsys, path.Dir(name), data.Textures), nil
}

func checkTextures(w io.Writer, fsys fs.FS, dir string, textures []anim.TextureInfo) int {
	problems := 0
	for _, t := range textures {
		p := path.Join(dir, t.RelativePath, t.FileName)
		cfg, err := decodeConfig(fsys, p)
		if err != nil {
			fmt.Fprintf(w, "missing %s: %v\n", p, err)
			problems++
			continue
		}
		if float64(cfg.Width) != t.Width || float64(cfg.Height) != t.Height {
			fmt.Fprintf(w, "size %s: image %dx%d, scml %gx%g\n", p, cfg.Width, cfg.Height, t.Width, t.Height)
			problems++
		}
	}
	if problems == 0 {
		fmt.Fprintf(w, "%d textures ok\n", len(textures))
	}
	return problems
}

func decodeConfig(fsys fs.FS, name string) (image.Config, error) {
	r, err := fsys.Open(name)
	if err != nil {
		return image.Config{}, err
	}
	defer r.Close()
	cfg, _, err := image.DecodeConfig(r)
	return cfg, err
}
