package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/cfamutation/driver/cfa"
	"github.com/cfamutation/driver/driver"
)

// runInteractive drives one driver.Session a round at a time from a
// readline REPL, following cmd/agsh's readline.NewEx setup: a prompt,
// a history file, and an interrupt/EOF prompt pair. Ctrl+C discards the
// current line and keeps the loop running; Ctrl+D leaves the loop cleanly
// rather than killing the process outright.
func runInteractive(ctx context.Context, d *driver.Driver, original *cfa.CFA) (*driver.Result, error) {
	session, res, err := d.Start(ctx, original)
	if err != nil {
		return nil, err
	}
	if res != nil {
		fmt.Printf("original run already terminal: %s\n", res.Status)
		return res, nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "cfamutate> ",
		HistoryFile:     "/tmp/cfamutate_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "cfamutate: readline init error:", err)
		return runBatch(session)
	}
	defer rl.Close()

	fmt.Println("cfamutate interactive — commands: next, skip, status, quit")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return &driver.Result{Status: driver.Interrupted, Last: session.Last(), Rounds: session.Round()}, nil
		}

		switch strings.TrimSpace(line) {
		case "next":
			result, done, err := session.Step()
			if err != nil {
				fmt.Fprintln(os.Stderr, "cfamutate: step error:", err)
				return nil, err
			}
			printStatus(session)
			if done {
				return result, nil
			}
		case "skip":
			// skip advances the session without reporting the round's
			// verdict in detail, for an operator who only cares about the
			// terminal outcome but still wants to pace rounds by hand.
			result, done, err := session.Step()
			if err != nil {
				return nil, err
			}
			if done {
				printStatus(session)
				return result, nil
			}
		case "status":
			printStatus(session)
		case "quit", "exit":
			return &driver.Result{Status: driver.Interrupted, Last: session.Last(), Rounds: session.Round()}, nil
		case "":
			// blank line: wait for the next command
		default:
			fmt.Println("unknown command; try: next, skip, status, quit")
		}
	}
}

func printStatus(session *driver.Session) {
	last := session.Last()
	if last == nil {
		fmt.Printf("round=%d (no rounds completed yet)\n", session.Round())
		return
	}
	fmt.Printf("round=%d verdict=%s target=%q\n", session.Round(), last.Verdict, last.Target)
}

// runBatch falls back to driving the session to completion without a
// TTY, for environments where readline.NewEx cannot attach (e.g. input
// is not a terminal).
func runBatch(session *driver.Session) (*driver.Result, error) {
	for {
		result, done, err := session.Step()
		if err != nil {
			return nil, err
		}
		if done {
			return result, nil
		}
	}
}
