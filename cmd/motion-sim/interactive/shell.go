// Package interactive provides the command shell for motion-sim.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/motion-protocol/motion-go/pkg/interaction"
	protolog "github.com/motion-protocol/motion-go/pkg/log"
	"github.com/motion-protocol/motion-go/pkg/wire"
)

// Shell drives a connected client from typed commands.
type Shell struct {
	client  *interaction.Client
	out     io.Writer
	rl      *readline.Instance
	history *protolog.MemoryLogger
}

// defaultHistory is the number of messages "history" shows without an
// argument.
const defaultHistory = 20

// New creates a shell with a readline prompt.
func New(client *interaction.Client) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "motion> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{client: client, out: rl.Stdout(), rl: rl}, nil
}

// NewWithWriter creates a shell without a prompt that writes to out.
// Use Execute to feed it commands.
func NewWithWriter(client *interaction.Client, out io.Writer) *Shell {
	return &Shell{client: client, out: out}
}

// SetHistory sets the capture the history command reads from. The same
// logger must be part of the client's ProtocolLogger.
func (s *Shell) SetHistory(m *protolog.MemoryLogger) {
	s.history = m
}

// Stdout returns a writer that coordinates with the prompt.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Run reads commands until quit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if !s.Execute(ctx, line) {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line. It returns false when the shell should
// exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
	case "list", "ls":
		s.cmdList(ctx)
	case "state", "st":
		s.cmdState(args)
	case "vibrate", "v":
		s.cmdVibrate(ctx, args)
	case "rotate", "r":
		s.cmdRotate(ctx, args)
	case "linear", "l":
		s.cmdLinear(ctx, args)
	case "launch":
		s.cmdLaunch(ctx, args)
	case "stop", "s":
		s.cmdStop(ctx, args)
	case "history", "h":
		s.cmdHistory(args)
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Motion Simulator Commands:
  Devices:
    list                          - List registered devices
    state <dev>                   - Show motion state of a device

  Commands:
    vibrate <dev> <speed>         - Vibrate at speed 0..1
    rotate <dev> <speed> [ccw]    - Rotate at speed 0..1
    linear <dev> <ms> <pos>       - Move to position 0..1 over ms
    launch <dev> <speed> <pos>    - Raw launch command, 0..99 each
    stop <dev>                    - Stop a device
    history [n]                   - Show the last n messages (default 20)

  General:
    help                          - Show this help
    quit                          - Exit`)
}

func (s *Shell) send(ctx context.Context, msg wire.Message) {
	resp, err := s.client.Send(ctx, msg)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s (id %d)\n", resp.Kind(), resp.MessageID())
}

func (s *Shell) cmdList(ctx context.Context) {
	resp, err := s.client.Send(ctx, &wire.RequestDeviceList{ID: s.client.NextMessageID()})
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	list, ok := resp.(*wire.DeviceList)
	if !ok {
		fmt.Fprintf(s.out, "Unexpected response: %s\n", resp.Kind())
		return
	}
	if len(list.Devices) == 0 {
		fmt.Fprintln(s.out, "No devices")
		return
	}
	for _, d := range list.Devices {
		kinds := make([]string, 0, len(d.Messages))
		for k := range d.Messages {
			kinds = append(kinds, k.String())
		}
		sort.Strings(kinds)
		fmt.Fprintf(s.out, "  [%d] %s: %s\n", d.Index, d.Name, strings.Join(kinds, ", "))
	}
}

func (s *Shell) cmdState(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: state <dev>")
		return
	}
	idx, ok := s.parseIndex(args[0])
	if !ok {
		return
	}
	srv := s.client.Server()
	if srv == nil {
		fmt.Fprintf(s.out, "Error: %v\n", interaction.ErrNotConnected)
		return
	}
	p, ok := srv.Device(idx)
	if !ok {
		fmt.Fprintf(s.out, "No device at index %d\n", idx)
		return
	}

	st := p.State()
	fmt.Fprintf(s.out, "  %s (%s)\n", p.Name(), p.Capabilities())
	fmt.Fprintf(s.out, "  Linear:  position %d, speed %d\n", st.LinearPosition, st.LinearSpeed)
	fmt.Fprintf(s.out, "  Vibrate: %.2f\n", st.VibrateSpeed)
	fmt.Fprintf(s.out, "  Rotate:  %.2f clockwise=%t\n", st.RotateSpeed, st.RotateClockwise)
}

func (s *Shell) cmdVibrate(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: vibrate <dev> <speed>")
		return
	}
	idx, ok := s.parseIndex(args[0])
	if !ok {
		return
	}
	speed, ok := s.parseUnit(args[1])
	if !ok {
		return
	}
	s.send(ctx, &wire.VibrateCmd{
		ID:          s.client.NextMessageID(),
		DeviceIndex: idx,
		Speeds:      []wire.VibrateSubcommand{{Index: 0, Speed: speed}},
	})
}

func (s *Shell) cmdRotate(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: rotate <dev> <speed> [ccw]")
		return
	}
	idx, ok := s.parseIndex(args[0])
	if !ok {
		return
	}
	speed, ok := s.parseUnit(args[1])
	if !ok {
		return
	}
	clockwise := !(len(args) > 2 && strings.EqualFold(args[2], "ccw"))
	s.send(ctx, &wire.RotateCmd{
		ID:          s.client.NextMessageID(),
		DeviceIndex: idx,
		Rotations:   []wire.RotateSubcommand{{Index: 0, Speed: speed, Clockwise: clockwise}},
	})
}

func (s *Shell) cmdLinear(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(s.out, "Usage: linear <dev> <ms> <pos>")
		return
	}
	idx, ok := s.parseIndex(args[0])
	if !ok {
		return
	}
	ms, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid duration: %s\n", args[1])
		return
	}
	pos, ok := s.parseUnit(args[2])
	if !ok {
		return
	}
	s.send(ctx, &wire.LinearCmd{
		ID:          s.client.NextMessageID(),
		DeviceIndex: idx,
		Vectors:     []wire.LinearVector{{Index: 0, Duration: uint32(ms), Position: pos}},
	})
}

func (s *Shell) cmdLaunch(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(s.out, "Usage: launch <dev> <speed> <pos>")
		return
	}
	idx, ok := s.parseIndex(args[0])
	if !ok {
		return
	}
	speed, err1 := strconv.ParseUint(args[1], 10, 8)
	pos, err2 := strconv.ParseUint(args[2], 10, 8)
	if err1 != nil || err2 != nil || speed > 99 || pos > 99 {
		fmt.Fprintln(s.out, "Speed and position must be 0..99")
		return
	}
	s.send(ctx, &wire.FleshlightLaunchFW12Cmd{
		ID:          s.client.NextMessageID(),
		DeviceIndex: idx,
		Speed:       uint8(speed),
		Position:    uint8(pos),
	})
}

func (s *Shell) cmdStop(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: stop <dev>")
		return
	}
	idx, ok := s.parseIndex(args[0])
	if !ok {
		return
	}
	s.send(ctx, &wire.StopDeviceCmd{ID: s.client.NextMessageID(), DeviceIndex: idx})
}

func (s *Shell) cmdHistory(args []string) {
	if s.history == nil {
		fmt.Fprintln(s.out, "History is not enabled")
		return
	}
	n := defaultHistory
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			fmt.Fprintf(s.out, "Invalid count: %s\n", args[0])
			return
		}
		n = v
	}

	category := protolog.CategoryMessage
	events := s.history.Filter(protolog.Filter{Category: &category})
	if len(events) == 0 {
		fmt.Fprintln(s.out, "No messages")
		return
	}
	if len(events) > n {
		events = events[len(events)-n:]
	}
	for _, e := range events {
		m := e.Message
		if m == nil {
			continue
		}
		line := fmt.Sprintf("  %s %-3s %s id=%d", e.Timestamp.Format("15:04:05.000"), e.Direction, m.Kind, m.MessageID)
		if m.DeviceIndex != nil {
			line += fmt.Sprintf(" dev=%d", *m.DeviceIndex)
		}
		if m.ErrorClass != nil {
			line += fmt.Sprintf(" class=%s", *m.ErrorClass)
		}
		if m.ProcessingTime != nil {
			line += fmt.Sprintf(" rtt=%s", m.ProcessingTime.Round(time.Microsecond))
		}
		fmt.Fprintln(s.out, line)
	}
}

func (s *Shell) parseIndex(arg string) (uint32, bool) {
	n, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid device index: %s\n", arg)
		return 0, false
	}
	return uint32(n), true
}

// parseUnit parses a float. Values outside 0..1 are passed through.
func (s *Shell) parseUnit(arg string) (float64, bool) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid number: %s\n", arg)
		return 0, false
	}
	return v, true
}
