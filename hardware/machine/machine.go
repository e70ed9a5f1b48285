// Package machine composes the TK2000's devices onto the bus and
// orchestrates power, reset and the emulation's goroutines. It is the type
// a host embeds: everything below it is wiring-agnostic, everything above
// it (windowing, audio devices, control panels) is the host's business.
package machine

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/tk2emu/tk2000/cartloader"
	"github.com/tk2emu/tk2000/hardware/bus"
	"github.com/tk2emu/tk2000/hardware/clock"
	"github.com/tk2emu/tk2000/hardware/cpu"
	"github.com/tk2emu/tk2000/hardware/keyboard"
	"github.com/tk2emu/tk2000/hardware/memory/bankswitch"
	"github.com/tk2emu/tk2000/hardware/memory/ram"
	"github.com/tk2emu/tk2000/hardware/memory/rom"
	"github.com/tk2emu/tk2000/hardware/sound"
	"github.com/tk2emu/tk2000/hardware/tape"
	"github.com/tk2emu/tk2000/hardware/video"
)

// refreshInterval is the period of the video refresh task.
const refreshInterval = 100 * time.Millisecond

// Host receives the machine's outbound events. Methods are called from the
// machine's own goroutines and should return promptly.
type Host interface {
	// FrameReady signals that the framebuffer has been repainted. The
	// image is owned by the machine and valid until the next refresh.
	FrameReady(img *image.RGBA)

	// TapeEnded signals that the loaded tape played through to the end.
	TapeEnded()

	// PowerStateChanged reports power-on and power-off transitions.
	PowerStateChanged(on bool)
}

// Machine is the assembled TK2000. Device fields are exported so that a
// host (or a test) can reach individual devices; mutating the wiring after
// construction is not supported.
type Machine struct {
	Bus      *bus.Bus
	Clock    *clock.Counter
	RAM      *ram.RAM
	ROM      *rom.ROM
	Bank     *bankswitch.BankSW
	Keyboard *keyboard.Keyboard
	Tape     *tape.Tape
	Sound    *sound.Sound
	Video    *video.Video
	CPU      *cpu.CPU

	host Host

	mu        sync.Mutex
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	powered   bool
	tapeEnded bool
}

// New builds the device graph from a 16KiB ROM image and wires it to the
// bus. sink receives speaker audio; nil disables sound (the machine still
// runs). No goroutines start until PowerOn.
func New(romImage []byte, sink sound.AudioSink) (*Machine, error) {
	b := bus.New()
	clk := &clock.Counter{}

	r, err := rom.New(romImage)
	if err != nil {
		return nil, err
	}

	m := &Machine{
		Bus:      b,
		Clock:    clk,
		RAM:      ram.New(),
		ROM:      r,
		Keyboard: keyboard.New(),
		Sound:    sound.New(clk, sink),
		Video:    video.New(b),
	}
	m.Tape = tape.New(b, clk)

	// The address map. Order matters only for the shared 0xC010 cell,
	// where the keyboard strobe-clear and the tape CASIN line are
	// deliberately co-located and a single read serves both.
	b.Attach(0x0000, 0xBFFF, m.RAM, bus.Replace)
	b.Attach(0xC000, 0xC01F, m.Keyboard, bus.Replace)
	b.Attach(0xC010, 0xC010, m.Tape, bus.Add)
	b.Attach(0xC020, 0xC02F, m.Tape, bus.Replace)
	b.Attach(0xC030, 0xC03F, m.Sound, bus.Replace)
	b.Attach(0xC050, 0xC051, m.Video, bus.Replace)
	b.Attach(0xC052, 0xC053, m.Tape, bus.Replace)
	b.Attach(0xC054, 0xC055, m.Video, bus.Replace)
	b.Attach(0xC056, 0xC057, m.Tape, bus.Replace)
	b.Attach(0xC05E, 0xC05F, m.Keyboard, bus.Replace)
	b.Attach(0xC070, 0xC071, m.Tape, bus.Replace)

	// BankSW maps the ROM into the 0xC100-0xFFFF window itself.
	m.Bank = bankswitch.New(b, m.RAM, m.ROM)
	b.Attach(0xC05A, 0xC05B, m.Bank, bus.Replace)
	b.Attach(0xC080, 0xC08B, m.Bank, bus.Replace)

	m.CPU = cpu.New(b, clk)

	return m, nil
}

// Attach registers the host event receiver. Call before PowerOn.
func (m *Machine) Attach(h Host) {
	m.host = h
}

// notifyPower reports a power transition, if a host is attached.
func (m *Machine) notifyPower(on bool) {
	if m.host != nil {
		m.host.PowerStateChanged(on)
	}
}

// powerOnPattern fills both hi-res pages with 0xFF: the white-striped
// power-on screen of the real machine.
func (m *Machine) powerOnPattern() {
	for addr := uint16(0x2000); addr < 0x4000; addr++ {
		m.RAM.Write(addr, 0xFF)
	}
	for addr := uint16(0xA000); addr < 0xC000; addr++ {
		m.RAM.Write(addr, 0xFF)
	}
}

// Reset re-selects the ROM bank, video page 1 and MONO mode, and asserts
// CPU reset. The CPU picks the reset up before its next instruction.
func (m *Machine) Reset() {
	m.Bank.Select(bankswitch.BankROM)
	m.Video.Reset()
	m.CPU.Raise(cpu.ExceptionReset)
}

// PowerOn starts the CPU and video goroutines. Powering an already-on
// machine is a no-op.
func (m *Machine) PowerOn() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.powered {
		return
	}

	m.powerOnPattern()
	m.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.wg.Add(2)
	go func() {
		defer m.wg.Done()
		_ = m.CPU.Run(ctx)
	}()
	go func() {
		defer m.wg.Done()
		m.refreshLoop(ctx)
	}()

	m.powered = true
	m.notifyPower(true)
}

// PowerOff stops both goroutines, waits for them to exit, and clears RAM.
// Device wiring is retained; PowerOn starts the same machine again.
func (m *Machine) PowerOff() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.powered {
		return
	}

	m.cancel()
	m.wg.Wait()
	m.RAM.Clear()

	m.powered = false
	m.notifyPower(false)
}

// Powered reports whether the machine is running.
func (m *Machine) Powered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.powered
}

// refreshLoop repaints the framebuffer at refreshInterval and raises
// machine events that are observed by polling (tape end).
func (m *Machine) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Video.Refresh()
			if m.host != nil && m.Video.Damaged() {
				m.host.FrameReady(m.Video.Framebuffer())
				m.Video.ClearDamaged()
			}

			ended := m.Tape.Ended()
			if ended && !m.tapeEnded && m.host != nil {
				m.host.TapeEnded()
			}
			m.tapeEnded = ended
		}
	}
}

// InsertTape loads a .ct2 file into the transport, rewound and stopped.
func (m *Machine) InsertTape(path string) (cartloader.Loader, error) {
	wave, ld, err := cartloader.LoadTape(path)
	if err != nil {
		return cartloader.Loader{}, err
	}
	m.Tape.Insert(wave)
	return ld, nil
}

// Play starts the tape transport.
func (m *Machine) Play() {
	m.Tape.Play()
}

// Stop halts the tape transport.
func (m *Machine) Stop() {
	m.Tape.Stop()
}

// SetColorMode selects COLOR (true) or MONO (false) rendering.
func (m *Machine) SetColorMode(color bool) {
	m.Video.SetColorMode(color)
}

// SetSoundEnabled mutes or unmutes the speaker.
func (m *Machine) SetSoundEnabled(enabled bool) {
	m.Sound.SetEnabled(enabled)
}

// SetTapeSoundEnabled controls whether tape playback clicks the speaker.
func (m *Machine) SetTapeSoundEnabled(enabled bool) {
	m.Tape.SetSound(enabled)
}

// PushKey presses a key with the given modifier state.
func (m *Machine) PushKey(key keyboard.Key, shift, ctrl bool) {
	m.Keyboard.PushKey(key, shift, ctrl)
}

// PushSymbol presses the shifted digit-row combination producing sym.
func (m *Machine) PushSymbol(sym keyboard.Symbol, ctrl bool) {
	m.Keyboard.PushSymbol(sym, ctrl)
}

// ReleaseKey releases the held key.
func (m *Machine) ReleaseKey() {
	m.Keyboard.ReleaseKey()
}
