// Package main 无头回放刮开手势脚本，输出结果摘要
//
// Usage:
//
//	go run ./cmd/replay [flags] script.yaml [script.yaml ...]
//
// Flags:
//
//	--config <path>      遮罩配置文件（默认使用内置默认值）
//	--frames <dir>       导出遮罩帧 PNG 的目录
//	--every <n>          每隔 n 帧导出一次
//	--font <path>        烟花文字使用的 TTF 字体
//	--verbose            详细日志
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/decker502/dustreveal/pkg/config"
	"github.com/decker502/dustreveal/pkg/replay"
	"github.com/decker502/dustreveal/pkg/utils"
)

var (
	configFlag  = flag.String("config", "", "Overlay config YAML (defaults when empty)")
	framesFlag  = flag.String("frames", "", "Directory to write mask PNG frames into")
	everyFlag   = flag.Int("every", 10, "Write one PNG frame every N frames")
	fontFlag    = flag.String("font", "", "TTF font for the celebration text")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: replay [flags] script.yaml [script.yaml ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := config.DefaultOverlayConfig()
	if *configFlag != "" {
		loaded, err := config.LoadOverlayConfig(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	fontPath := *fontFlag
	if fontPath == "" {
		fontPath = cfg.Celebration.FontPath
	}
	face, err := utils.LoadFontFace(fontPath, cfg.Celebration.FontSize)
	if err != nil {
		log.Printf("[Replay] font unavailable, celebration text disabled: %v", err)
	} else if missing, _ := utils.MissingGlyphs(fontPath, cfg.Celebration.Text); len(missing) > 0 {
		log.Printf("[Replay] Warning: font has no glyphs for %q", string(missing))
	}

	failed := false
	for _, path := range flag.Args() {
		script, err := replay.LoadScript(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
			continue
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		opts := replay.Options{Config: cfg, Face: face, FrameEvery: *everyFlag}
		if *framesFlag != "" {
			opts.FrameDir = filepath.Join(*framesFlag, name)
		}

		res, err := replay.Run(script, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
			failed = true
			continue
		}
		fmt.Println(replay.Summary(name, res))
	}

	if failed {
		os.Exit(1)
	}
}
