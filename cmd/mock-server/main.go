package main

import (
	"github.com/airenas/go-app/pkg/goapp"
	"github.com/labstack/gommon/color"
	"github.com/spf13/viper"

	"github.com/revspeech/rev-go/internal/pkg/mockrev"
	"github.com/revspeech/rev-go/internal/pkg/utils"
)

func main() {
	goapp.StartWithDefault()

	printBanner()

	data := takeSettings(goapp.Config)
	data.Store = mockrev.NewStore()

	go utils.RunPerfEndpoint(goapp.Config.GetInt("debug.port"))

	if err := mockrev.StartWebServer(data); err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't start web server")
	}
}

func takeSettings(cfg *viper.Viper) *mockrev.Data {
	res := &mockrev.Data{}
	res.Port = cfg.GetInt("port")
	if res.Port == 0 {
		res.Port = 8000
	}
	res.PageSize = cfg.GetInt("pageSize")
	if res.PageSize == 0 {
		res.PageSize = 8
	}
	return res
}

var (
	version = "DEV"
)

func printBanner() {
	banner := `
                  __
   ____ ___  ____  _____/ /__      ________ _   __
  / __ ` + "`" + `__ \/ __ \/ ___/ //_/_____/ ___/ _ \ | / /
 / / / / / / /_/ / /__/ ,< /_____/ /  /  __/ |/ /
/_/ /_/ /_/\____/\___/_/|_|     /_/   \___/|___/   v: %s

  order API emulator
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version))
}
