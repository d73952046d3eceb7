package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/decker502/taiko/pkg/app"
	"github.com/decker502/taiko/pkg/config"
	"github.com/decker502/taiko/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	chart := flag.String("chart", app.DefaultChart, "谱面名称（data/charts 下的文件名）或 YAML 文件路径")
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	seed := flag.Int64("seed", 0, "三角形图案随机种子")
	flag.Parse()

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose: *verbose,
		Chart:   *chart,
		Seed:    *seed,
	})
	if err != nil {
		// NewApp 在非 verbose 模式下会关闭日志输出
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Taiko Pieces")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
