package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"emperror.dev/errors"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/app"
	"github.com/llehouerou/reel/internal/config"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/icons"
	"github.com/llehouerou/reel/internal/logging"
	"github.com/llehouerou/reel/internal/mpris"
	"github.com/llehouerou/reel/internal/mpv"
	"github.com/llehouerou/reel/internal/notify"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/player"
	"github.com/llehouerou/reel/internal/remote"
	"github.com/llehouerou/reel/internal/stderr"
	"github.com/llehouerou/reel/internal/ui/controlbar"
	"github.com/llehouerou/reel/internal/ui/styles"
)

var (
	configPath = flag.String("config", "", "extra config file, loaded after the default locations")
	backend    = flag.String("backend", "", "playback backend: auto, beep or mpv (overrides config)")
	debug      = flag.Bool("debug", false, "log at debug level")
	remoteAddr = flag.String("remote", "", "serve the web remote on this address (overrides config)")
)

// mediaSink is what both backends provide.
type mediaSink interface {
	playback.MediaSink
	app.Output
	Close() error
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <media file>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLoadConfig, err))
	}
	if *backend != "" {
		cfg.Backend = strings.ToLower(*backend)
	}

	logCfg := cfg.GetLogConfig()
	logger, logCloser, err := logging.Open(logging.Options{File: logCfg.File, Level: logCfg.Level, Debug: *debug})
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer logCloser.Close()
	logger.Info().Str("path", path).Msg("Starting reel")

	// Audio libraries write to fd 2, which would corrupt the TUI
	if err := stderr.Start(logger); err != nil {
		logger.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	styles.SetAccent(cfg.Theme.Primary, cfg.Theme.Secondary)
	icons.Init(cfg.Icons)

	sink, media, err := openSink(cfg, path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("open media")
		return errors.New(errmsg.FormatWith(errmsg.OpOpenMedia, filepath.Base(path), err))
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn().Err(err).Msg("close sink")
		}
	}()

	wind := cfg.GetWindSettings()
	bar := controlbar.New(0)
	hub := remote.NewHub(logger)
	defer hub.Close()

	ctrl := playback.New(sink, playback.Options{
		WindStep:     wind.Step,
		WindInterval: wind.Interval,
		Logger:       &logger,
	}, bar, hub)
	defer ctrl.Close()

	if adapter, err := mpris.New(ctrl, mprisMedia(media, sink), sink, logger); err != nil {
		logger.Warn().Msg(errmsg.Format(errmsg.OpMprisStart, err))
	} else {
		defer adapter.Close()
	}

	if cfg.Notify {
		if a := startNotify(ctrl, media, logger); a != nil {
			// Runs before the deferred ctrl.Close. Closing ends the
			// announcer, which then withdraws its last notification.
			defer func() {
				_ = ctrl.Close()
				a.Wait()
			}()
		}
	}

	if srv := startRemote(cfg, hub, ctrl, media, logger); srv != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				logger.Warn().Err(err).Msg("stop remote")
			}
		}()
	}

	model := app.New(ctrl, bar, app.Options{
		Media:    media,
		Output:   sink,
		SeekStep: 10 * time.Second,
		Logger:   &logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "run program")
	}
	logger.Info().Msg("Exiting")
	return nil
}

// openSink picks the backend: beep for files it can decode, mpv otherwise,
// unless the configuration forces one.
func openSink(cfg *config.Config, path string, logger zerolog.Logger) (mediaSink, app.Media, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, app.Media{}, errors.WithStack(err)
	}

	name := cfg.GetBackend()
	if name == config.BackendAuto {
		name = config.BackendMpv
		if player.IsAudioFile(path) {
			name = config.BackendBeep
		}
	}
	logger.Debug().Str("backend", name).Msg("selected backend")

	switch name {
	case config.BackendBeep:
		sink, err := player.Open(path, player.Options{Volume: cfg.GetVolume(), Logger: &logger})
		if err != nil {
			return nil, app.Media{}, err
		}
		info := sink.TrackInfo()
		return sink, app.Media{
			Path:       path,
			Title:      info.Title,
			Artist:     info.Artist,
			Album:      info.Album,
			Format:     info.Format,
			SampleRate: info.SampleRate,
			Size:       fi.Size(),
		}, nil
	default:
		ms := cfg.GetMpvSettings()
		sink, err := mpv.Launch(context.Background(), path, mpv.Options{
			Binary:  ms.Binary,
			Socket:  ms.Socket,
			Timeout: ms.Timeout,
			Args:    ms.Args,
			Logger:  &logger,
		})
		if err != nil {
			return nil, app.Media{}, errors.Wrap(err, string(errmsg.OpStartMpv))
		}
		sink.SetVolume(cfg.GetVolume())

		media := app.Media{
			Path:   path,
			Title:  filepath.Base(path),
			Format: strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), ".")),
			Size:   fi.Size(),
			Video:  !player.IsAudioFile(path),
		}
		// Tags are optional, and absent from most video files
		info, err := player.ReadTrackInfo(path)
		if err != nil {
			logger.Debug().Msg(errmsg.Format(errmsg.OpReadTags, err))
			return sink, media, nil
		}
		if info.Title != "" {
			media.Title = info.Title
		}
		media.Artist, media.Album = info.Artist, info.Album
		return sink, media, nil
	}
}

func mprisMedia(m app.Media, sink playback.MediaSink) mpris.Media {
	return mpris.Media{
		Path:     m.Path,
		Title:    m.Title,
		Artist:   m.Artist,
		Album:    m.Album,
		Duration: sink.Duration(),
	}
}

// startNotify announces playback on the desktop. The announcer stops by
// itself when the controller is closed; Wait for it before exiting.
func startNotify(ctrl playback.Controller, media app.Media, logger zerolog.Logger) *notify.Announcer {
	n, err := notify.New()
	if err != nil {
		logger.Warn().Err(err).Msg("notifications unavailable")
		return nil
	}
	title := media.Title
	if title == "" {
		title = filepath.Base(media.Path)
	}
	return notify.Watch(n, ctrl.Subscribe(), notify.Media{
		Title:   title,
		Body:    strings.Join(slices.DeleteFunc([]string{media.Artist, media.Album}, func(s string) bool { return s == "" }), " - "),
		Artwork: mpris.FindArtwork(media.Path),
	}, logger)
}

func startRemote(
	cfg *config.Config,
	hub *remote.Hub,
	ctrl playback.Controller,
	media app.Media,
	logger zerolog.Logger,
) *remote.Server {
	rc := cfg.GetRemoteConfig()
	if *remoteAddr != "" {
		rc.Enabled = true
		rc.Addr = *remoteAddr
	}
	if !rc.Enabled {
		return nil
	}

	srv, err := remote.NewServer(rc.Addr, hub, ctrl, remote.Options{Title: media.Title}, logger)
	if err == nil {
		err = srv.Start()
	}
	if err != nil {
		logger.Error().Msg(errmsg.Format(errmsg.OpRemoteStart, err))
		return nil
	}
	return srv
}
