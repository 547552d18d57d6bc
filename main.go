package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/jessevdk/go-flags"
	"github.com/quasilyte/gdata/v2"
	"github.com/sirupsen/logrus"

	"github.com/decker502/creatures/pkg/app"
	"github.com/decker502/creatures/pkg/config"
	"github.com/decker502/creatures/pkg/embedded"
)

// sampleRate 全局音频上下文采样率
const sampleRate = 48000

type options struct {
	Config  string `short:"c" long:"config"  default:"data/creatures.yaml" description:"Creature table (YAML)"`
	Assets  string `short:"a" long:"assets"  description:"Asset root directory, overrides basePath in the creature table"`
	Verbose bool   `short:"v" long:"verbose" description:"Enable debug logging"`
	Strict  bool   `long:"strict"            description:"Fail at startup when any animation has no frames"`
	Mute    bool   `long:"mute"              description:"Run without an audio device"`
	Skip    bool   `long:"skip-menu"         description:"Start in the arena instead of the start screen"`
}

func parseCmd() options {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	return opts
}

func main() {
	opts := parseCmd()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if opts.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	log := logrus.WithField("component", "main")

	embedded.Init(dataFS)

	cfg, err := config.LoadCreatureConfig(opts.Config)
	if err != nil {
		log.WithError(err).Fatal("Failed to load creature config")
	}
	if opts.Assets != "" {
		cfg.BasePath = opts.Assets
	}

	gdataManager, err := gdata.Open(gdata.Config{AppName: "creatures"})
	if err != nil {
		log.WithError(err).Warn("Settings storage unavailable, settings will not persist")
		gdataManager = nil
	}

	var audioContext *audio.Context
	if !opts.Mute {
		audioContext = audio.NewContext(sampleRate)
	}

	game, err := app.NewApp(app.Config{
		Creatures:    cfg,
		AudioContext: audioContext,
		GData:        gdataManager,
		StrictAssets: opts.Strict,
		SkipStart:    opts.Skip,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to start")
	}
	defer game.Close()

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle(config.GameWindowTitle)
	ebiten.SetTPS(config.TicksPerSecond)
	ebiten.SetFullscreen(game.Settings().GetSettings().Fullscreen)

	if err := ebiten.RunGame(game); err != nil {
		log.WithError(err).Error("Game loop exited with error")
	}
}
