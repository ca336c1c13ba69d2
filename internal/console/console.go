// Package console drives a settings surface from line-oriented commands.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leandrodaf/midivol/sdk/contracts"
)

// ErrQuit is returned by Execute for the quit command.
var ErrQuit = errors.New("quit")

// Injector feeds a packet into the active driver, if the driver supports it.
type Injector func(p contracts.Packet) error

// Console executes commands against a settings surface.
type Console struct {
	surface contracts.SettingsSurface
	inject  Injector
	out     io.Writer
}

// New creates a console writing replies to out. inject may be nil.
func New(surface contracts.SettingsSurface, inject Injector, out io.Writer) *Console {
	return &Console{surface: surface, inject: inject, out: out}
}

// Run reads commands from r until EOF, quit, or ctx is done.
func (c *Console) Run(ctx context.Context, r io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	c.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := c.Execute(line); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
			c.prompt()
		}
	}
}

// Execute runs a single command line.
func (c *Console) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "get":
		c.printSettings(c.surface.GetSettings())
	case "set":
		n, err := ints(args, 4)
		if err != nil {
			return fmt.Errorf("usage: set <device> <sample-ms> <channel> <cc>: %w", err)
		}
		c.report(c.surface.SetSettings(n[0], n[1], n[2], n[3]))
	case "error":
		c.report(c.surface.GetError())
	case "restart":
		c.report(c.surface.AttemptRestart())
	case "enable":
		c.report(c.surface.SetEnabled(true))
	case "disable":
		c.report(c.surface.SetEnabled(false))
	case "toggle":
		enabled, msg := c.surface.Toggle()
		fmt.Fprintf(c.out, "enabled: %t\n", enabled)
		if msg != "" {
			c.report(msg)
		}
	case "send":
		if c.inject == nil {
			return errors.New("send is only available with the virtual driver")
		}
		n, err := ints(args, 3)
		if err != nil {
			return fmt.Errorf("usage: send <channel> <cc> <value>: %w", err)
		}
		switch {
		case n[0] < 1 || n[0] > 16:
			return fmt.Errorf("send: channel must be between 1 and 16, got %d", n[0])
		case n[1] < 0 || n[1] > 127:
			return fmt.Errorf("send: CC number must be between 0 and 127, got %d", n[1])
		case n[2] < 0 || n[2] > 127:
			return fmt.Errorf("send: value must be between 0 and 127, got %d", n[2])
		}
		return c.inject(contracts.Packet{Channel: uint8(n[0]), Controller: uint8(n[1]), Value: uint8(n[2])})
	case "help":
		fmt.Fprintln(c.out, "commands: get, set <device> <sample-ms> <channel> <cc>, error, restart, enable, disable, toggle, send <channel> <cc> <value>, quit")
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (c *Console) printSettings(s contracts.Settings) {
	fmt.Fprintf(c.out, "sample time: %d ms\n", s.SampleTimeMs)
	fmt.Fprintf(c.out, "channel: %s\n", orAll(s.Channel, contracts.AnyChannel))
	fmt.Fprintf(c.out, "cc: %s\n", orAll(s.CCNumber, contracts.AnyController))
	fmt.Fprintf(c.out, "enabled: %t\n", s.Enabled)
	fmt.Fprintln(c.out, "devices:")
	for i, d := range s.Devices {
		fmt.Fprintf(c.out, "  %d: %s\n", i, d)
	}
}

func (c *Console) report(msg string) {
	if msg == "" {
		fmt.Fprintln(c.out, "ok")
		return
	}
	fmt.Fprintf(c.out, "status: %s\n", msg)
}

func (c *Console) prompt() {
	fmt.Fprint(c.out, "> ")
}

func orAll(v, all int) string {
	if v == all {
		return "all"
	}
	return strconv.Itoa(v)
}

func ints(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
