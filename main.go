package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/dustreveal/pkg/app"
	"github.com/decker502/dustreveal/pkg/embedded"
)

var (
	verboseFlag    = flag.Bool("verbose", false, "Enable verbose logging")
	configFlag     = flag.String("config", "", "Overlay config YAML on disk (embedded default when empty)")
	forceMountFlag = flag.Bool("force-mount", false, "Mount the scratch overlay on non-touch clients")
	celebrateFlag  = flag.Bool("celebrate", false, "Play the celebration regardless of the date")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:          *verboseFlag,
		ConfigPath:       *configFlag,
		ForceMount:       *forceMountFlag,
		ForceCelebration: *celebrateFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "应用初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Dust Reveal")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
