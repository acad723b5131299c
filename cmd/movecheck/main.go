package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/park285/oh-my-chess/internal/checkclient"
	appcfg "github.com/park285/oh-my-chess/internal/config"
	"github.com/park285/oh-my-chess/internal/fen"
	"github.com/park285/oh-my-chess/internal/movecheck"
	"github.com/park285/oh-my-chess/internal/msgcat"
	"github.com/park285/oh-my-chess/internal/render"
	"github.com/park285/oh-my-chess/internal/rules"
	"github.com/park285/oh-my-chess/pkg/movedto"
)

const (
	exitLegal   = 0
	exitIllegal = 1
	exitError   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	fen        string
	from, to   string
	mover      string
	remote     string
	png        string
	squareSize int
	flip       bool
	timeout    time.Duration
	retry      int
	messages   string
}

type verdict struct {
	Legal   bool
	Reason  string
	Message string
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := appcfg.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitError
	}

	fs := flag.NewFlagSet("movecheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var o options
	fs.StringVar(&o.fen, "fen", fen.StartFEN, "board position in FEN")
	fs.StringVar(&o.from, "from", "", "source square, e.g. e2")
	fs.StringVar(&o.to, "to", "", "destination square, e.g. e4")
	fs.StringVar(&o.mover, "mover", "", "white or black (default: side to move in the FEN)")
	fs.StringVar(&o.remote, "remote", cfg.RemoteBaseURL, "ask an oh-my-chess server instead of checking locally")
	fs.StringVar(&o.png, "png", "", "write a PNG of the board with the move highlighted")
	fs.IntVar(&o.squareSize, "square-size", cfg.RenderSquareSize, "PNG square size in pixels")
	fs.BoolVar(&o.flip, "flip", false, "draw the PNG from Black's side")
	fs.DurationVar(&o.timeout, "timeout", cfg.RemoteTimeout(), "overall timeout")
	fs.IntVar(&o.retry, "retry", cfg.RemoteRetry, "attempts for remote calls")
	fs.StringVar(&o.messages, "messages", cfg.MessagesDir, "message override directory")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	catalog, err := msgcat.New(o.messages)
	if err != nil {
		fmt.Fprintf(stderr, "messages: %v\n", err)
		return exitError
	}
	if o.from == "" || o.to == "" {
		usage, _ := catalog.Render("cli.usage", nil)
		fmt.Fprintln(stderr, usage)
		return exitError
	}

	board, turn, err := fen.Decode(o.fen)
	if err != nil {
		fmt.Fprintf(stderr, "fen: %v\n", err)
		return exitError
	}
	from, err := fen.ParseSquare(o.from)
	if err != nil {
		fmt.Fprintf(stderr, "from: %v\n", err)
		return exitError
	}
	to, err := fen.ParseSquare(o.to)
	if err != nil {
		fmt.Fprintf(stderr, "to: %v\n", err)
		return exitError
	}
	mover := turn
	if o.mover != "" {
		p, ok := rules.ParsePlayer(o.mover)
		if !ok {
			fmt.Fprintf(stderr, "mover: unknown player %q\n", o.mover)
			return exitError
		}
		mover = p
	}
	move := rules.Move{From: from, To: to}

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	var v verdict
	var image []byte
	if o.remote != "" {
		v, image, err = checkRemote(ctx, o, board, move, mover)
	} else {
		v, image, err = checkLocal(ctx, o, catalog, board, move, mover)
	}
	if err != nil {
		fmt.Fprintf(stderr, "check: %v\n", err)
		return exitError
	}

	if o.png != "" {
		if err := os.WriteFile(o.png, image, 0o644); err != nil {
			fmt.Fprintf(stderr, "png: %v\n", err)
			return exitError
		}
	}
	line, err := catalog.Render("cli.verdict", v)
	if err != nil {
		line = fmt.Sprintf("%v %s", v.Legal, v.Reason)
	}
	fmt.Fprintln(stdout, line)
	if v.Legal {
		return exitLegal
	}
	return exitIllegal
}

func checkLocal(ctx context.Context, o options, catalog *msgcat.Catalog, board *rules.Board, move rules.Move, mover rules.Player) (verdict, []byte, error) {
	out, err := movecheck.NewService().Check(ctx, movecheck.CheckInput{Board: board, Move: move, Mover: mover})
	if err != nil {
		return verdict{}, nil, err
	}
	v := verdict{Legal: out.Legal, Reason: out.Reason.String(), Message: catalog.Reason(out.Reason, msgcat.FactsFor(board, move, mover))}
	if o.png == "" {
		return v, nil, nil
	}
	img, err := render.NewRenderer().RenderPNG(ctx, board, render.Options{SquareSize: o.squareSize, Highlight: &move, Mover: mover, Flip: o.flip})
	return v, img, err
}

func checkRemote(ctx context.Context, o options, board *rules.Board, move rules.Move, mover rules.Player) (verdict, []byte, error) {
	c := checkclient.NewClient(o.remote, checkclient.WithTimeout(o.timeout), checkclient.WithRetry(o.retry))
	grid := movedto.FromBoard(board)
	mv := movedto.MoveFrom(move)
	resp, err := c.Validate(ctx, movedto.ValidateRequest{Board: grid, Move: &mv, Mover: mover.String()})
	if err != nil {
		return verdict{}, nil, err
	}
	v := verdict{Legal: resp.Legal, Reason: resp.Reason, Message: resp.Message}
	if v.Message == "" {
		v.Message = resp.Reason
	}
	if o.png == "" {
		return v, nil, nil
	}
	img, err := c.Render(ctx, movedto.RenderRequest{Board: grid, Move: &mv, Mover: mover.String(), SquareSize: o.squareSize, Flip: o.flip})
	if err != nil {
		return v, nil, fmt.Errorf("render: %w", err)
	}
	return v, img, nil
}
