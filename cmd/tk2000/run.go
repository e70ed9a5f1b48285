package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/tk2emu/tk2000/cartloader"
	"github.com/tk2emu/tk2000/config"
	"github.com/tk2emu/tk2000/hardware/machine"
	"github.com/tk2emu/tk2000/hardware/sound"
	"github.com/tk2emu/tk2000/hardware/tape"
	"github.com/tk2emu/tk2000/logger"
)

var runOpts struct {
	tapePath     string
	captureAudio string
	screenshot   string
	configPath   string
	showLog      bool
}

var runCmd = &cobra.Command{
	Use:   "run <rom image>",
	Short: "run the emulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	runCmd.Flags().StringVar(&runOpts.tapePath, "tape", "", ".ct2 tape to insert")
	runCmd.Flags().StringVar(&runOpts.captureAudio, "capture-audio", "", "write speaker output to a WAV file")
	runCmd.Flags().StringVar(&runOpts.screenshot, "screenshot", "", "write the final frame to a PNG file on exit")
	runCmd.Flags().StringVar(&runOpts.configPath, "config", "tk2000.prefs", "preference file")
	runCmd.Flags().BoolVar(&runOpts.showLog, "log", false, "dump the session log on exit")
	rootCmd.AddCommand(runCmd)
}

// terminalHost prints machine events to stderr; frames are counted but not
// displayed (this harness has no display surface).
type terminalHost struct {
	frames int
}

func (h *terminalHost) FrameReady(*image.RGBA) {
	h.frames++
}

func (h *terminalHost) TapeEnded() {
	fmt.Fprintln(os.Stderr, "\r\ntape ended")
}

func (h *terminalHost) PowerStateChanged(on bool) {
	if on {
		fmt.Fprintln(os.Stderr, "\r\npower on")
	} else {
		fmt.Fprintln(os.Stderr, "\r\npower off")
	}
}

func run(romPath string) error {
	// preferences: runtime toggles plus the tunable tape leader length
	colorMode := config.NewBool(false)
	soundEnabled := config.NewBool(true)
	tapeSound := config.NewBool(true)
	caCycles := config.NewInt(tape.CACycles)

	store := config.NewStore(runOpts.configPath)
	for key, v := range map[string]config.Value{
		"video.colormode": colorMode,
		"sound.enabled":   soundEnabled,
		"tape.sound":      tapeSound,
		"tape.cacycles":   caCycles,
	} {
		if err := store.Add(key, v); err != nil {
			return err
		}
	}
	if err := store.Load(); err != nil {
		return err
	}
	tape.CACycles = caCycles.Get()

	_, ld, err := cartloader.LoadROM(romPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "rom: %s (sha1 %s)\n", ld.ShortName(), ld.HashSHA1)

	var sink sound.AudioSink
	var wavSink *sound.WavSink
	if runOpts.captureAudio != "" {
		f, err := os.Create(runOpts.captureAudio)
		if err != nil {
			return err
		}
		defer f.Close()
		wavSink = sound.NewWavSink(f)
		sink = wavSink
	}

	m, err := machine.New(ld.Data, sink)
	if err != nil {
		return err
	}

	host := &terminalHost{}
	m.Attach(host)
	m.SetColorMode(colorMode.Get())
	m.SetSoundEnabled(soundEnabled.Get())
	m.SetTapeSoundEnabled(tapeSound.Get())

	if runOpts.tapePath != "" {
		tapeLd, err := m.InsertTape(runOpts.tapePath)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "tape: %s (sha1 %s)\n", tapeLd.ShortName(), tapeLd.HashSHA1)
		m.Play()
	}

	m.PowerOn()
	err = readKeys(m)
	m.PowerOff()

	if wavSink != nil {
		if cerr := wavSink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	if runOpts.screenshot != "" {
		m.Video.Refresh()
		if serr := writePNG(runOpts.screenshot, m.Video.Framebuffer()); serr != nil && err == nil {
			err = serr
		}
	}

	if runOpts.showLog {
		logger.Write(os.Stderr)
	}

	fmt.Fprintf(os.Stderr, "frames rendered: %d\n", host.frames)
	if serr := store.Save(); serr != nil && err == nil {
		err = serr
	}
	return err
}

func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
