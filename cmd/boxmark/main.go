// Command boxmark opens the annotation editor in a window.
//
// Usage:
//
//	boxmark [-config boxmark.json] [-image photo.jpg] [-shapes shapes.json]
//	        [-script steps.json] [-serve :3000] [-debug] [-fps]
//
// Images and .json shape files can also be dropped on the window.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/phanxgames/boxmark"
	"github.com/phanxgames/boxmark/game"
	"github.com/phanxgames/boxmark/server"
)

const windowTitle = "boxmark"

func main() {
	var configPath, imagePath, shapesPath, scriptPath, serveAddr string
	var debug, showFPS bool

	flag.StringVar(&configPath, "config", "", "JSON config file (defaults apply when empty)")
	flag.StringVar(&imagePath, "image", "", "background image (png/jpg/gif/webp/bmp/tiff)")
	flag.StringVar(&shapesPath, "shapes", "", "shapes JSON file to import on start")
	flag.StringVar(&scriptPath, "script", "", "input script to run; the window closes when it ends")
	flag.StringVar(&serveAddr, "serve", "", "also serve the HTTP API on this address, e.g. :3000")
	flag.BoolVar(&debug, "debug", false, "log every command and check invariants")
	flag.BoolVar(&showFPS, "fps", false, "show the FPS overlay")
	flag.Parse()

	cfg := boxmark.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = boxmark.LoadConfig(configPath); err != nil {
			log.Fatal(err)
		}
	}
	cfg.ApplyEnv()
	if debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	editor := boxmark.NewEditor(cfg)
	if err := boxmark.LoadPaths(editor, imagePath, shapesPath); err != nil {
		log.Fatal(err)
	}

	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			log.Fatal(err)
		}
		runner, err := boxmark.LoadScript(data)
		if err != nil {
			log.Fatal(err)
		}
		editor.SetScriptRunner(runner)
	}

	session := boxmark.NewSession(editor, 0)

	if serveAddr != "" {
		srv := server.New(session, cfg)
		go func() {
			if err := srv.Listen(serveAddr); err != nil {
				log.Printf("api: %v", err)
			}
		}()
	}

	g := game.New(session, game.Options{
		ShowFPS:         showFPS,
		QuitOnScriptEnd: scriptPath != "",
	})
	if err := g.Run(windowTitle); err != nil {
		log.Fatal(err)
	}
}
