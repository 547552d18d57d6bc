// check_assets 检查生物配置引用的贴图、音效与背景音乐是否都存在
// 有缺失时以状态码 1 退出
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/decker502/creatures/pkg/config"
	"github.com/decker502/creatures/pkg/embedded"
)

type options struct {
	Config string `short:"c" long:"config" default:"data/creatures.yaml" description:"Creature table (YAML)"`
	Assets string `short:"a" long:"assets" description:"Asset root directory, overrides basePath in the creature table"`
}

func main() {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	cfg, err := config.LoadCreatureConfig(opts.Config)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if opts.Assets != "" {
		cfg.BasePath = opts.Assets
	}

	missing := 0
	for _, key := range cfg.Keys() {
		paths, err := cfg.AssetPaths(key)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		found := 0
		for _, p := range paths {
			if embedded.Exists(p) {
				found++
				continue
			}
			fmt.Printf("  missing: %s\n", p)
			missing++
		}
		fmt.Printf("%-10s %d/%d assets present\n", key, found, len(paths))
	}

	if music := cfg.MusicPath(); music != "" {
		if embedded.Exists(music) {
			fmt.Printf("%-10s present\n", "music")
		} else {
			fmt.Printf("  missing: %s\n", music)
			missing++
		}
	}

	if missing > 0 {
		fmt.Printf("%d asset(s) missing\n", missing)
		os.Exit(1)
	}
}
