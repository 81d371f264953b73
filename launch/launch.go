package launch

import (
	"log"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/getlantern/systray"

	"main/config"
	"main/query"
	"main/recorder"
	"main/web"
)

func StartProgram() {
	systray.Run(onReady, onExit)
}

func onReady() {
	icon, err := os.ReadFile("./icon.ico")
	if err == nil {
		systray.SetIcon(icon)
	}
	systray.SetTitle("DayTrack")
	systray.SetTooltip("Tracking your day")

	cfg := config.DefaultConfig()
	go mainProgram(cfg)

	mOpenWeb := systray.AddMenuItem("Open Web UI", "Open the tracker in the browser")
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	go func() {
		for {
			select {
			case <-mOpenWeb.ClickedCh:
				openBrowser("http://" + cfg.Addr)
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func onExit() {
	os.Exit(0)
}

func openBrowser(url string) {
	switch runtime.GOOS {
	case "windows":
		_ = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		_ = exec.Command("open", url).Start()
	default:
		_ = exec.Command("xdg-open", url).Start()
	}
}

func mainProgram(cfg *config.Config) {
	db, err := query.InitDatabase(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}

	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Println("bad timezone, falling back to local:", err)
		} else {
			loc = l
		}
	}

	rec := recorder.New(db, loc)
	web.StartServer(cfg.Addr, db, rec, loc)
	select {}
}
